package verifications

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/veridoc-io/veridoc/pkg/handlers"
	"github.com/veridoc-io/veridoc/pkg/pagination"
	"github.com/veridoc-io/veridoc/pkg/routes"
	"github.com/veridoc-io/veridoc/pkg/storage"
)

// Handler provides HTTP endpoints for verification workflows. Start and
// ProvideInfo delegate to the Runner; reads go straight to the
// persistence system so they never block on pipeline execution.
type Handler struct {
	sys        System
	runner     Runner
	storage    storage.System
	logger     *slog.Logger
	pages      pagination.Config
	presignTTL time.Duration
	maxUpload  int64
}

// NewHandler creates a Handler with the given collaborators. maxUpload
// caps the request body size on Start.
func NewHandler(
	sys System,
	runner Runner,
	store storage.System,
	logger *slog.Logger,
	pages pagination.Config,
	presignTTL time.Duration,
	maxUpload int64,
) *Handler {
	return &Handler{
		sys:        sys,
		runner:     runner,
		storage:    store,
		logger:     logger.With("handler", "verifications"),
		pages:      pages,
		presignTTL: presignTTL,
		maxUpload:  maxUpload,
	}
}

// Routes returns the route group definition for verification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/verifications",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{id}", Handler: h.Find},
			{Method: "POST", Pattern: "", Handler: h.Start},
			{Method: "PUT", Pattern: "/{id}/info", Handler: h.ProvideInfo},
		},
	}
}

type startRequest struct {
	ImageData    string  `json:"image_data"`
	ContentType  string  `json:"content_type"`
	DocumentType *string `json:"document_type,omitempty"`
}

type infoRequest struct {
	Info string `json:"info"`
}

type detail struct {
	Verification
	PreviewURL *string `json:"preview_url,omitempty"`
}

// List returns a page of verification workflows.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pages)

	result, err := h.sys.List(r.Context(), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Find returns the latest persisted workflow snapshot along with a
// time-limited preview URL for the stored document image.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	v, err := h.sys.Find(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	d := detail{Verification: *v}
	if v.FileKey != "" {
		url, err := h.storage.PresignURL(r.Context(), v.FileKey, h.presignTTL)
		if err != nil {
			h.logger.Warn("preview url generation failed", "id", v.ID, "error", err)
		} else {
			d.PreviewURL = &url
		}
	}

	handlers.RespondJSON(w, http.StatusOK, d)
}

// Start accepts a base64-encoded document image, creates the workflow,
// and returns its initial snapshot before the pipeline completes.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.ImageData == "" {
		err := fmt.Errorf("%w: image_data required", ErrValidation)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageData)
	if err != nil {
		err = fmt.Errorf("%w: image_data is not valid base64", ErrValidation)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	v, err := h.runner.Start(r.Context(), StartCommand{
		ImageData:    data,
		ContentType:  contentType,
		DocumentType: req.DocumentType,
	})
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, v)
}

// ProvideInfo submits additional information for a workflow paused in
// NeedsInfo and resumes pipeline execution.
func (h *Handler) ProvideInfo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	var req infoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if req.Info == "" {
		err := fmt.Errorf("%w: info required", ErrValidation)
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	v, err := h.runner.ProvideAdditionalInfo(r.Context(), id, req.Info)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, v)
}
