package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// feedMetrics tracks how the published calendar is consumed.
// Each server owns its registry so several instances can coexist in tests.
type feedMetrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	size     prometheus.Gauge
	updates  prometheus.Counter
}

func newFeedMetrics() *feedMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &feedMetrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: config.MetricFeedRequests,
			Help: config.MetricHelpRequests,
		}, []string{config.MetricLabelCode}),
		size: factory.NewGauge(prometheus.GaugeOpts{
			Name: config.MetricFeedSize,
			Help: config.MetricHelpSize,
		}),
		updates: factory.NewCounter(prometheus.CounterOpts{
			Name: config.MetricFeedUpdates,
			Help: config.MetricHelpUpdates,
		}),
	}
}

// ObservePublish records a replacement of the served calendar.
func (m *feedMetrics) ObservePublish(size int) {
	m.updates.Inc()
	m.size.Set(float64(size))
}

// handler exposes the registry in the Prometheus text format.
func (m *feedMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// instrument counts responses of next by status code.
func (m *feedMetrics) instrument(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		m.requests.WithLabelValues(strconv.Itoa(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
