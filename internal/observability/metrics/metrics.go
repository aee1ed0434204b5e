package metrics

import "github.com/prometheus/client_golang/prometheus"

// DispatchMetrics exposes counters/histograms for the communications
// dispatch path.
type DispatchMetrics struct {
	dispatchTotal   *prometheus.CounterVec
	providerLatency *prometheus.HistogramVec
	logWriteErrors  prometheus.Counter
}

func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	m := &DispatchMetrics{
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "commshub",
			Subsystem: "dispatch",
			Name:      "requests_total",
			Help:      "Total dispatch requests by channel and outcome",
		}, []string{"channel", "status"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "commshub",
			Subsystem: "dispatch",
			Name:      "provider_latency_seconds",
			Help:      "Latency of outbound vendor calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"channel"}),
		logWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "commshub",
			Subsystem: "dispatch",
			Name:      "log_write_errors_total",
			Help:      "Audit log writes that failed and were swallowed",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.dispatchTotal, m.providerLatency, m.logWriteErrors)
	return m
}

func (m *DispatchMetrics) ObserveDispatch(channel, status string) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(channel, status).Inc()
}

func (m *DispatchMetrics) ObserveProviderLatency(channel string, seconds float64) {
	if m == nil {
		return
	}
	m.providerLatency.WithLabelValues(channel).Observe(seconds)
}

func (m *DispatchMetrics) ObserveLogWriteError() {
	if m == nil {
		return
	}
	m.logWriteErrors.Inc()
}
