package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	t.Parallel()
	m := New()
	m.SessionRecorded(true, 25)
	m.SessionRecorded(false, 2)
	m.ReminderFired(ReminderDelivered)
	m.ReminderFired(ReminderSuppressed)
	m.ReminderFired(ReminderSuppressed)
	m.RemindersPending(3)
	m.PersistError("stats")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsRecorded.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsRecorded.WithLabelValues("false")))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.studyMinutes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.reminders.WithLabelValues(ReminderSuppressed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.remindersPending))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "estudozen_reminder_fired_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.SessionRecorded(true, 10)
	m.ReminderFired(ReminderDenied)
	m.RemindersPending(1)
	m.PersistError("x")
}
