package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks facade calls by operation and response status.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// New registers the wallet metrics on reg. Pass prometheus.NewRegistry() in
// tests so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "localwallet_facade_requests_total",
			Help: "Total facade calls by operation and response status",
		}, []string{"operation", "status"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "localwallet_facade_request_duration_seconds",
			Help:    "Duration of facade calls by operation",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
	}
}

// Observe records one call. Call with time.Now() taken at the start of the
// operation. A nil Metrics is a no-op.
func (m *Metrics) Observe(operation string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
