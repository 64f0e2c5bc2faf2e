package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"brgydocs/internal/model"
)

// Metrics counts lifecycle activity. A nil *Metrics records nothing.
type Metrics struct {
	transitions *prometheus.CounterVec
	retries     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "brgydocs",
				Name:      "document_request_transitions_total",
				Help:      "Committed document request status changes.",
			},
			[]string{"action", "to"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "brgydocs",
				Name:      "or_number_retries_total",
				Help:      "Create transactions retried after a uniqueness collision.",
			},
			[]string{"reason"},
		),
	}
	for _, c := range []prometheus.Collector{m.transitions, m.retries} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) transition(action string, to model.Status) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, string(to)).Inc()
}

func (m *Metrics) retry(reason string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(reason).Inc()
}
