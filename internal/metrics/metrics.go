package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "disperse"

// Metrics holds the session collectors. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	submissions *prometheus.CounterVec
	parseErrors *prometheus.CounterVec
	recipients  prometheus.Histogram
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state transitions.",
		}, []string{"from", "to"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Batch transaction outcomes.",
		}, []string{"outcome"}),
		parseErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Rejected input lines by reason.",
		}, []string{"reason"}),
		recipients: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_recipients",
			Help:      "Recipients per submitted batch.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.submissions, m.parseErrors, m.recipients} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Transition(from, to string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ParseError(reason string) {
	if m == nil {
		return
	}
	m.parseErrors.WithLabelValues(reason).Inc()
}

func (m *Metrics) BatchSize(n int) {
	if m == nil {
		return
	}
	m.recipients.Observe(float64(n))
}
