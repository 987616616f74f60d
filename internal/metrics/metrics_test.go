package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mediadock/internal/metrics"
)

func TestNilRegistryIsSafe(t *testing.T) {
	var r *metrics.Registry
	r.ObserveRequest("storage", "/images/", http.MethodGet, 200, time.Millisecond)
	r.RelayForwarded(metrics.OutcomeDelivered, 2)
	r.ImageStored(10)
	r.ImageDeleted()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 from nil registry handler, got %d", rec.Code)
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	r := metrics.New()
	r.ObserveRequest("relay", "/webhook", http.MethodPost, 502, 20*time.Millisecond)
	r.RelayForwarded(metrics.OutcomeRejected, 3)
	r.ImageStored(2048)
	r.ImageDeleted()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	text := string(body)
	for _, want := range []string{
		`mediadock_http_requests_total{code="502",method="POST",route="/webhook",surface="relay"} 1`,
		`mediadock_relay_webhooks_total{outcome="rejected"} 1`,
		`mediadock_relay_alerts_total 3`,
		`mediadock_images_stored_total 1`,
		`mediadock_images_deleted_total 1`,
		`mediadock_images_uploaded_bytes_total 2048`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in exposition:\n%s", want, text)
		}
	}
}
