package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tagonlink/tagonlink/internal/metrics"
)

func TestMetricsHandler_Prometheus(t *testing.T) {
	recorder := metrics.NewPrometheus()
	recorder.IncLinkCreated()

	h := NewMetricsHandler(recorder)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `tagonlink_link_events_total{op="create"} 1`) {
		t.Errorf("expected link counter in output:\n%s", rec.Body.String())
	}
}

func TestMetricsHandler_Disabled(t *testing.T) {
	h := NewMetricsHandler(nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()

	h.Metrics(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", rec.Code)
	}
}
