package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/JaimeStill/esgdash/pkg/metrics"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	sys := metrics.New()

	handler := sys.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, path := range []string{"/api/files/1", "/api/files/2"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("DELETE", path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	}

	expected := `
# HELP esgdash_http_requests_total Total HTTP requests processed.
# TYPE esgdash_http_requests_total counter
esgdash_http_requests_total{method="DELETE",path="/api/files/{id}",status="204"} 2
`
	if err := testutil.GatherAndCompare(sys.Registry(), strings.NewReader(expected), "esgdash_http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestRecordVerdict(t *testing.T) {
	sys := metrics.New()

	sys.RecordVerdict(true, "")
	sys.RecordVerdict(false, "extension")
	sys.RecordVerdict(false, "extension")
	sys.RecordVerdict(false, "")

	expected := `
# HELP esgdash_validation_verdicts_total ESG report validation verdicts by outcome and reject reason.
# TYPE esgdash_validation_verdicts_total counter
esgdash_validation_verdicts_total{reason="extension",verdict="reject"} 2
esgdash_validation_verdicts_total{reason="none",verdict="accept"} 1
esgdash_validation_verdicts_total{reason="unknown",verdict="reject"} 1
`
	if err := testutil.GatherAndCompare(sys.Registry(), strings.NewReader(expected), "esgdash_validation_verdicts_total"); err != nil {
		t.Error(err)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	sys := metrics.New()
	sys.RecordVerdict(true, "")

	rec := httptest.NewRecorder()
	sys.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "esgdash_validation_verdicts_total") {
		t.Errorf("body missing verdict metric")
	}
}
