package authz

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts access decisions by required role and reason.
type Metrics struct {
	decisions *prometheus.CounterVec
}

// NewMetrics registers the decision counter with reg. Registering twice
// against the same registry reuses the existing collector.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	cv := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campusdesk",
			Name:      "authz_decisions_total",
			Help:      "Access decisions on role-protected routes, by required role and outcome.",
		},
		[]string{"required_role", "outcome"},
	)
	if err := reg.Register(cv); err != nil {
		var are prometheus.AlreadyRegisteredError
		if !errors.As(err, &are) {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, err
		}
		cv = existing
	}
	return &Metrics{decisions: cv}, nil
}

func (m *Metrics) observe(required, reason string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(required, reason).Inc()
}
