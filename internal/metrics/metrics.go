package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mediadock"

// Relay outcomes recorded by RelayForwarded.
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
	OutcomeInvalid   = "invalid"
)

// Registry holds every mediadock collector. A nil *Registry is valid and
// records nothing.
type Registry struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	relayForwards *prometheus.CounterVec
	relayAlerts   prometheus.Counter
	imagesStored  prometheus.Counter
	imagesDeleted prometheus.Counter
	uploadBytes   prometheus.Counter
}

// New builds a registry with process and Go runtime collectors attached.
func New() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests handled, by surface, route and status code.",
		}, []string{"surface", "route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency, by surface and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"surface", "route"}),
		relayForwards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "webhooks_total",
			Help:      "Inbound alert webhooks, by delivery outcome.",
		}, []string{"outcome"}),
		relayAlerts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "alerts_total",
			Help:      "Individual alerts formatted for delivery.",
		}),
		imagesStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "stored_total",
			Help:      "Images accepted by the upload endpoint.",
		}),
		imagesDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "deleted_total",
			Help:      "Images removed by the delete endpoint.",
		}),
		uploadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "images",
			Name:      "uploaded_bytes_total",
			Help:      "Bytes written to the media root by uploads.",
		}),
	}
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.relayForwards,
		r.relayAlerts,
		r.imagesStored,
		r.imagesDeleted,
		r.uploadBytes,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one handled HTTP request.
func (r *Registry) ObserveRequest(surface, route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(surface, route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(surface, route).Observe(elapsed.Seconds())
}

// RelayForwarded records one inbound webhook and how many alerts it carried.
func (r *Registry) RelayForwarded(outcome string, alerts int) {
	if r == nil {
		return
	}
	r.relayForwards.WithLabelValues(outcome).Inc()
	if alerts > 0 {
		r.relayAlerts.Add(float64(alerts))
	}
}

// ImageStored records a successful upload of size bytes.
func (r *Registry) ImageStored(size int64) {
	if r == nil {
		return
	}
	r.imagesStored.Inc()
	if size > 0 {
		r.uploadBytes.Add(float64(size))
	}
}

// ImageDeleted records a successful delete.
func (r *Registry) ImageDeleted() {
	if r == nil {
		return
	}
	r.imagesDeleted.Inc()
}
