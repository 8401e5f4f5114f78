package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomePanic       = "panic"

	// ProviderNone labels resolutions where no strategy produced a client.
	ProviderNone = "none"
)

// Recorder collects discovery metrics. A nil *Recorder discards observations.
type Recorder struct {
	registry    *prometheus.Registry
	attempts    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	resolutions *prometheus.CounterVec
}

// NewRecorder creates a recorder with its own registry.
func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_attempts_total",
			Help:      "Number of discovery strategy attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_attempt_duration_seconds",
			Help:      "Duration of discovery strategy attempts.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Number of completed resolutions by winning provider.",
		}, []string{"provider"}),
	}

	r.registry.MustRegister(r.attempts, r.durations, r.resolutions)
	return r
}

// ObserveAttempt records one strategy attempt.
func (r *Recorder) ObserveAttempt(provider, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.attempts.WithLabelValues(provider, outcome).Inc()
	r.durations.WithLabelValues(provider).Observe(d.Seconds())
}

// ObserveResolution records the provider that won a resolution, or ProviderNone.
func (r *Recorder) ObserveResolution(provider string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(provider).Inc()
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// MetricsServer exposes a Recorder over HTTP.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server for recorder listening on addr.
func New(recorder *Recorder, addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
