package handler

import (
	"net/http"
)

// MetricsExposer serves collected metrics in an exposition format.
type MetricsExposer interface {
	Handler() http.Handler
}

// MetricsHandler exposes Prometheus metrics.
type MetricsHandler struct {
	exposer MetricsExposer
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(exposer MetricsExposer) *MetricsHandler {
	return &MetricsHandler{exposer: exposer}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.exposer == nil {
		writeError(w, http.StatusServiceUnavailable, "METRICS_DISABLED", "metrics are not enabled")
		return
	}
	h.exposer.Handler().ServeHTTP(w, r)
}
