package batch

import "github.com/prometheus/client_golang/prometheus"

// PoolMetrics tracks batch throughput for a named pool.
type PoolMetrics struct {
	submitted prometheus.Counter
	processed prometheus.Counter
	failed    prometheus.Counter
	inFlight  prometheus.Gauge
}

// NewPoolMetrics creates pool metrics labelled with the pool name and
// registers them when reg is non-nil.
func NewPoolMetrics(pool string, reg prometheus.Registerer) *PoolMetrics {
	labels := prometheus.Labels{"pool": pool}
	m := &PoolMetrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "guardkit",
			Subsystem:   "batch",
			Name:        "items_submitted_total",
			Help:        "Total number of items submitted for processing.",
			ConstLabels: labels,
		}),
		processed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "guardkit",
			Subsystem:   "batch",
			Name:        "items_processed_total",
			Help:        "Total number of items processed successfully.",
			ConstLabels: labels,
		}),
		failed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "guardkit",
			Subsystem:   "batch",
			Name:        "items_failed_total",
			Help:        "Total number of items that failed processing.",
			ConstLabels: labels,
		}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "guardkit",
			Subsystem:   "batch",
			Name:        "items_in_flight",
			Help:        "Number of items currently being processed.",
			ConstLabels: labels,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submitted, m.processed, m.failed, m.inFlight)
	}
	return m
}

func (m *PoolMetrics) itemsSubmitted(n int) {
	if m == nil {
		return
	}
	m.submitted.Add(float64(n))
}

func (m *PoolMetrics) itemStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

func (m *PoolMetrics) itemFinished(err error) {
	if m == nil {
		return
	}
	m.inFlight.Dec()
	if err != nil {
		m.failed.Inc()
		return
	}
	m.processed.Inc()
}
