package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncRegistered()
	m.IncRegistered()
	m.IncConflict("email")
	m.IncValidationFailure("register")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.UsersRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Conflicts.WithLabelValues("email")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Conflicts.WithLabelValues("phone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationFailures.WithLabelValues("register")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncRegistered()
		m.IncUpdated()
		m.IncDeleted()
		m.IncConflict("phone")
		m.IncValidationFailure("update")
		m.ObserveRequest("GET", "/api/users", "200", 0.01)
	})
}
