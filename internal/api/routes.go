package api

import (
	"net/http"

	"github.com/veridoc-io/veridoc/internal/verifications"
	"github.com/veridoc-io/veridoc/pkg/routes"
)

func registerRoutes(mux *http.ServeMux, domain *Domain, runtime *Runtime) {
	verificationsHandler := verifications.NewHandler(
		domain.Verifications,
		domain.Orchestrator,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
		runtime.PresignTTL,
		runtime.MaxUpload,
	)

	routes.Register(mux, verificationsHandler.Routes())
	routes.Register(mux, domain.Prompts.Handler().Routes())
	routes.Register(mux, domain.Configurations.Handler().Routes())
}
