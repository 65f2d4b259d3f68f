package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	UsersRegistered    prometheus.Counter
	UsersUpdated       prometheus.Counter
	UsersDeleted       prometheus.Counter
	Conflicts          *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		UsersRegistered: f.NewCounter(prometheus.CounterOpts{
			Name: "user_registration_users_registered_total",
			Help: "Total number of users registered",
		}),
		UsersUpdated: f.NewCounter(prometheus.CounterOpts{
			Name: "user_registration_users_updated_total",
			Help: "Total number of successful user updates",
		}),
		UsersDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "user_registration_users_deleted_total",
			Help: "Total number of users deleted",
		}),
		Conflicts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "user_registration_conflicts_total",
			Help: "Writes rejected because an email or phone number is already taken",
		}, []string{"field"}),
		ValidationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "user_registration_validation_failures_total",
			Help: "Payloads rejected by validation",
		}, []string{"operation"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "user_registration_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) IncRegistered() {
	if m != nil {
		m.UsersRegistered.Inc()
	}
}

func (m *Metrics) IncUpdated() {
	if m != nil {
		m.UsersUpdated.Inc()
	}
}

func (m *Metrics) IncDeleted() {
	if m != nil {
		m.UsersDeleted.Inc()
	}
}

func (m *Metrics) IncConflict(field string) {
	if m != nil {
		m.Conflicts.WithLabelValues(field).Inc()
	}
}

func (m *Metrics) IncValidationFailure(op string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(op).Inc()
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m != nil {
		m.RequestDuration.WithLabelValues(method, route, status).Observe(seconds)
	}
}
