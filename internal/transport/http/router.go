package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all endpoints. Health and metrics stay outside the auth
// boundary; the v1 API requires a bearer token when a secret is configured.
func NewRouter(h *Handler, authSecret string, logger *slog.Logger, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery(logger))
	r.Use(RequestID)
	r.Use(Logger(logger))

	r.Get("/healthz", h.handleHealthz)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(RequireAuth(authSecret, logger))
		v1.Post("/shipments/process", h.handleProcess)
		v1.Post("/shipments/convert", h.handleConvert)
		v1.Post("/shipments/validate", h.handleValidate)
		v1.Post("/rules/refresh", h.handleRefreshRules)
	})

	return r
}
