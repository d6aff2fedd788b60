package metrics

import "github.com/prometheus/client_golang/prometheus"

// IntakeMetrics exposes counters/histograms for the intake flow.
type IntakeMetrics struct {
	submissionsTotal *prometheus.CounterVec
	emailSendTotal   *prometheus.CounterVec
	persistenceTotal *prometheus.CounterVec
	intakeLatency    prometheus.Histogram
}

func NewIntakeMetrics(reg prometheus.Registerer) *IntakeMetrics {
	m := &IntakeMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seventattoo",
			Subsystem: "intake",
			Name:      "submissions_total",
			Help:      "Total Vision Call submissions by outcome",
		}, []string{"outcome"}),
		emailSendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seventattoo",
			Subsystem: "intake",
			Name:      "email_send_total",
			Help:      "Total notification email sends",
		}, []string{"status"}),
		persistenceTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "seventattoo",
			Subsystem: "intake",
			Name:      "persistence_total",
			Help:      "Total CRM write attempts by status",
		}, []string{"status"}),
		intakeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "seventattoo",
			Subsystem: "intake",
			Name:      "request_latency_seconds",
			Help:      "Latency of intake request processing",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.emailSendTotal, m.persistenceTotal, m.intakeLatency)
	return m
}

func (m *IntakeMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *IntakeMetrics) ObserveEmailSend(status string) {
	if m == nil {
		return
	}
	m.emailSendTotal.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) ObservePersistence(status string) {
	if m == nil {
		return
	}
	m.persistenceTotal.WithLabelValues(status).Inc()
}

func (m *IntakeMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.intakeLatency.Observe(seconds)
}
