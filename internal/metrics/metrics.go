package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	DuplicatesRejected   prometheus.Counter
	EmailsSent           prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blitzweek_registrations_created_total",
			Help: "Total number of successful registrations",
		}),
		DuplicatesRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blitzweek_duplicate_registrations_total",
			Help: "Total number of registration attempts rejected as duplicates",
		}),
		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "blitzweek_confirmation_emails_sent_total",
			Help: "Total number of confirmation emails sent",
		}),
	}
}

// IncrementRegistrationsCreated increments the registrations counter by 1.
// Safe on a nil receiver so tests can run without a registry.
func (m *Metrics) IncrementRegistrationsCreated() {
	if m == nil {
		return
	}
	m.RegistrationsCreated.Inc()
}

// IncrementDuplicatesRejected increments the duplicates counter by 1.
func (m *Metrics) IncrementDuplicatesRejected() {
	if m == nil {
		return
	}
	m.DuplicatesRejected.Inc()
}

// IncrementEmailsSent increments the emails sent counter by 1.
func (m *Metrics) IncrementEmailsSent() {
	if m == nil {
		return
	}
	m.EmailsSent.Inc()
}
