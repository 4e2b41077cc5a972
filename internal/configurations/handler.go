package configurations

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/veridoc-io/veridoc/pkg/handlers"
	"github.com/veridoc-io/veridoc/pkg/routes"
)

// Handler provides HTTP endpoints for configuration operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "configurations"),
	}
}

// Routes returns the route group definition for configuration endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/configurations",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/groups", Handler: h.Groups},
			{Method: "GET", Pattern: "/models/active", Handler: h.ActiveModel},
			{Method: "GET", Pattern: "/inference-params", Handler: h.InferenceParams},
			{Method: "GET", Pattern: "/{group}", Handler: h.Group},
			{Method: "POST", Pattern: "", Handler: h.Create},
			{Method: "PUT", Pattern: "", Handler: h.Update},
		},
	}
}

// Groups returns the list of valid configuration groups.
func (h *Handler) Groups(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, Groups())
}

// Group returns all configuration entries within the requested group.
func (h *Handler) Group(w http.ResponseWriter, r *http.Request) {
	group, err := ParseGroup(r.PathValue("group"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	configs, err := h.sys.Group(r.Context(), group)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, configs)
}

// ActiveModel returns the currently active model selector.
func (h *Handler) ActiveModel(w http.ResponseWriter, r *http.Request) {
	c, err := h.sys.ActiveModel(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}

// InferenceParams returns the effective inference parameters.
func (h *Handler) InferenceParams(w http.ResponseWriter, r *http.Request) {
	params, err := h.sys.InferenceParams(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, params)
}

// Create inserts a new configuration entry.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, c)
}

// Update applies an optimistic configuration write.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	c, err := h.sys.Update(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}
