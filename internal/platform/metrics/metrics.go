package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "estudozen"

// Reminder outcomes.
const (
	ReminderDelivered  = "delivered"
	ReminderSuppressed = "suppressed"
	ReminderDenied     = "denied"
	ReminderFailed     = "failed"
)

// Metrics holds the process collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	sessionsRecorded *prometheus.CounterVec
	studyMinutes     prometheus.Counter
	reminders        *prometheus.CounterVec
	remindersPending prometheus.Gauge
	persistErrors    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		sessionsRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "sessions_recorded_total",
			Help:      "Number of study sessions recorded, by completion.",
		}, []string{"completed"}),
		studyMinutes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "study_minutes_total",
			Help:      "Minutes of completed study recorded by this process.",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "fired_total",
			Help:      "Reminder fire attempts grouped by outcome.",
		}, []string{"outcome"}),
		remindersPending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "reminder",
			Name:      "pending",
			Help:      "Reminder timers currently scheduled.",
		}),
		persistErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "persist_errors_total",
			Help:      "Durable store writes that failed, by logical key.",
		}, []string{"key"}),
	}
	m.Registry.MustRegister(m.sessionsRecorded, m.studyMinutes, m.reminders, m.remindersPending, m.persistErrors)
	return m
}

func (m *Metrics) SessionRecorded(completed bool, minutes int) {
	if m == nil {
		return
	}
	m.sessionsRecorded.WithLabelValues(strconv.FormatBool(completed)).Inc()
	if completed && minutes > 0 {
		m.studyMinutes.Add(float64(minutes))
	}
}

func (m *Metrics) ReminderFired(outcome string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RemindersPending(n int) {
	if m == nil {
		return
	}
	m.remindersPending.Set(float64(n))
}

func (m *Metrics) PersistError(key string) {
	if m == nil {
		return
	}
	m.persistErrors.WithLabelValues(key).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
