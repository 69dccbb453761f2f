package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the board metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsService encapsulates Prometheus instrumentation for the board.
type MetricsService struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	translationDuration *prometheus.HistogramVec
	storeWriteDuration  *prometheus.HistogramVec
	storeLoads          *prometheus.CounterVec
	submissionsRejected *prometheus.CounterVec
	announcements       prometheus.Gauge
}

// NewMetricsService registers the board's Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	translationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "translation_request_duration_seconds",
		Help:    "Duration of translation provider calls",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	}, []string{"outcome"})

	storeWriteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "announcement_store_write_seconds",
		Help:    "Duration of announcement collection writes",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "outcome"})

	storeLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "announcement_store_loads_total",
		Help: "Announcement collection loads by outcome",
	}, []string{"outcome"})

	submissionsRejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "announcement_submissions_rejected_total",
		Help: "Composer submissions rejected before or after translation",
	}, []string{"reason"})

	announcements := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "announcements",
		Help: "Number of announcements on the board",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, translationDuration, storeWriteDuration, storeLoads, submissionsRejected, announcements, goroutines)

	return &MetricsService{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		translationDuration: translationDuration,
		storeWriteDuration:  storeWriteDuration,
		storeLoads:          storeLoads,
		submissionsRejected: submissionsRejected,
		announcements:       announcements,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveTranslation records one provider call.
func (m *MetricsService) ObserveTranslation(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.translationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// ObserveStoreWrite records one collection write (upsert or remove).
func (m *MetricsService) ObserveStoreWrite(operation, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.storeWriteDuration.WithLabelValues(operation, outcome).Observe(duration.Seconds())
}

// RecordStoreLoad counts collection loads by outcome (loaded, empty, corrupt, unavailable).
func (m *MetricsService) RecordStoreLoad(outcome string) {
	if m == nil {
		return
	}
	m.storeLoads.WithLabelValues(outcome).Inc()
}

// RecordRejectedSubmission counts submissions that did not reach the store.
func (m *MetricsService) RecordRejectedSubmission(reason string) {
	if m == nil {
		return
	}
	m.submissionsRejected.WithLabelValues(reason).Inc()
}

// SetAnnouncementCount updates the board size gauge.
func (m *MetricsService) SetAnnouncementCount(n int) {
	if m == nil {
		return
	}
	m.announcements.Set(float64(n))
}
