package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a set of Prometheus collectors for dispatched calls. A nil
// *Metrics records nothing.
type Metrics struct {
	// Requests counts completed round trips by method and status code.
	// Transport failures use the status "error".
	Requests *prometheus.CounterVec
	// AdmissionWait is a histogram of the time calls spent waiting for a token.
	AdmissionWait prometheus.Histogram
	// AvailableTokens is the bucket level after the most recent admission.
	AvailableTokens prometheus.Gauge
}

// NewMetrics creates the collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Number of API requests by method and status code.",
		}, []string{"method", "status"}),
		AdmissionWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "admission_wait_seconds",
			Help:      "A histogram of the time requests waited for rate limit capacity.",
			Buckets:   []float64{0, 0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		AvailableTokens: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rate_limit_available_tokens",
			Help:      "Tokens left in the client side rate limit bucket.",
		}),
	}
}

// Register registers all collectors with reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Requests, m.AdmissionWait, m.AvailableTokens} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes all collectors from reg.
func (m *Metrics) Unregister(reg prometheus.Registerer) {
	reg.Unregister(m.Requests)
	reg.Unregister(m.AdmissionWait)
	reg.Unregister(m.AvailableTokens)
}

func (m *Metrics) observeRequest(method, status string) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, status).Inc()
}

func (m *Metrics) observeWait(d time.Duration) {
	if m == nil {
		return
	}
	m.AdmissionWait.Observe(d.Seconds())
}

func (m *Metrics) setAvailable(tokens float64) {
	if m == nil {
		return
	}
	m.AvailableTokens.Set(tokens)
}
