package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estudozen/internal/modules/reminder/domain"
	"estudozen/internal/modules/reminder/service"
	"estudozen/internal/platform/broadcast"
	"estudozen/internal/platform/clock"
	"estudozen/internal/platform/metrics"
)

var t0 = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

type fakeSource struct {
	mu    sync.Mutex
	items []domain.Item
	hub   broadcast.Hub[[]domain.Item]
}

func (f *fakeSource) Items(context.Context) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Item(nil), f.items...), nil
}

func (f *fakeSource) Subscribe(fn func([]domain.Item)) func() {
	return f.hub.Subscribe(fn)
}

func (f *fakeSource) set(items ...domain.Item) {
	f.mu.Lock()
	f.items = items
	f.mu.Unlock()
	f.hub.Publish(append([]domain.Item(nil), items...))
}

type fakeGate struct {
	status domain.GateStatus
}

func (g *fakeGate) Status(context.Context) domain.GateStatus { return g.status }

type delivery struct {
	at    time.Time
	title string
}

type fakeChannel struct {
	clk        *clock.Fake
	deliveries []delivery
	err        error
}

func (c *fakeChannel) Deliver(_ context.Context, title, _ string) error {
	c.deliveries = append(c.deliveries, delivery{at: c.clk.Now(), title: title})
	return c.err
}

type fixture struct {
	clk     *clock.Fake
	source  *fakeSource
	gate    *fakeGate
	channel *fakeChannel
	metrics *metrics.Metrics
	svc     *service.SchedulerService
}

func newFixture(t *testing.T, items ...domain.Item) fixture {
	t.Helper()
	clk := clock.NewFake(t0)
	f := fixture{
		clk:     clk,
		source:  &fakeSource{items: items},
		gate:    &fakeGate{status: domain.GateStatus{Permission: domain.PermissionGranted}},
		channel: &fakeChannel{clk: clk},
		metrics: metrics.New(),
	}
	f.svc = service.NewSchedulerService(clk, f.source, f.gate, f.channel, f.metrics, nil, time.Minute)
	require.NoError(t, f.svc.Start(context.Background()))
	t.Cleanup(f.svc.Stop)
	return f
}

func reminderAt(id, title string, at time.Time) domain.Item {
	return domain.Item{ID: id, Title: title, StartTime: at.Add(10 * time.Minute), Reminder: true, ReminderTime: at}
}

func counterValue(t *testing.T, m *metrics.Metrics, outcome string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != "estudozen_reminder_fired_total" {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "outcome" && l.GetValue() == outcome {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestReminderFiresOnceAtReminderTime(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(5*time.Second)))

	f.clk.Advance(5*time.Second - time.Millisecond)
	assert.Empty(t, f.channel.deliveries)

	f.clk.Advance(time.Second)
	require.Len(t, f.channel.deliveries, 1)
	fired := f.channel.deliveries[0].at
	assert.False(t, fired.Before(t0.Add(5*time.Second)))
	assert.True(t, fired.Before(t0.Add(6*time.Second)))

	// Sweeps after firing do not fire it again.
	f.clk.Advance(3 * time.Minute)
	assert.Len(t, f.channel.deliveries, 1)
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "delivered"))
}

func TestDeletedItemNeverFires(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(5*time.Second)))
	f.clk.Advance(2 * time.Second)
	f.source.set()
	assert.Empty(t, f.svc.Pending())

	f.clk.Advance(10 * time.Second)
	assert.Empty(t, f.channel.deliveries)
	assert.Equal(t, 1, f.clk.Pending(), "only the sweep remains scheduled")
}

func TestSameReminderTimeFiresEach(t *testing.T) {
	t.Parallel()
	at := t0.Add(time.Minute)
	f := newFixture(t, reminderAt("a", "Calculus", at), reminderAt("b", "Physics", at))
	f.clk.Advance(time.Minute)
	require.Len(t, f.channel.deliveries, 2)
	titles := []string{f.channel.deliveries[0].title, f.channel.deliveries[1].title}
	assert.ElementsMatch(t, []string{"Calculus", "Physics"}, titles)
}

func TestReminderMovedIntoPastDoesNotFire(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(time.Hour)))
	require.Len(t, f.svc.Pending(), 1)

	f.clk.Advance(time.Second)
	f.source.set(reminderAt("a", "Calculus", t0.Add(-time.Minute)))
	assert.Empty(t, f.svc.Pending())
	f.clk.Advance(2 * time.Hour)
	assert.Empty(t, f.channel.deliveries)
}

func TestEditReschedules(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(time.Hour)))
	f.source.set(reminderAt("a", "Calculus", t0.Add(30*time.Second)))
	pending := f.svc.Pending()
	require.Len(t, pending, 1)
	assert.True(t, pending[0].FireAt.Equal(t0.Add(30*time.Second)))

	f.clk.Advance(2 * time.Hour)
	assert.Len(t, f.channel.deliveries, 1)
}

func TestSuppressedReminderIsDropped(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(5*time.Second)))
	f.gate.status = domain.GateStatus{Suppressed: true, Permission: "denied"}
	f.clk.Advance(5 * time.Second)
	assert.Empty(t, f.channel.deliveries)

	// Lifting the block later does not replay it.
	f.gate.status = domain.GateStatus{Permission: domain.PermissionGranted}
	f.clk.Advance(5 * time.Minute)
	assert.Empty(t, f.channel.deliveries)
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "suppressed"))
}

func TestDeniedPermissionSkipsDelivery(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(5*time.Second)))
	f.gate.status = domain.GateStatus{Permission: "default"}
	f.clk.Advance(5 * time.Second)
	assert.Empty(t, f.channel.deliveries)
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "denied"))
}

func TestDeliveryFailureIsCounted(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(5*time.Second)))
	f.channel.err = errors.New("terminal closed")
	f.clk.Advance(5 * time.Second)
	assert.Len(t, f.channel.deliveries, 1)
	assert.Equal(t, 1.0, counterValue(t, f.metrics, "failed"))
}

func TestSweepPicksUpMissedChanges(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	// Written without a change notification.
	f.source.mu.Lock()
	f.source.items = []domain.Item{reminderAt("a", "Calculus", t0.Add(90*time.Second))}
	f.source.mu.Unlock()

	f.clk.Advance(time.Minute)
	assert.Len(t, f.svc.Pending(), 1)
	f.clk.Advance(time.Minute)
	assert.Len(t, f.channel.deliveries, 1)
}

func TestStopCancelsEverything(t *testing.T) {
	t.Parallel()
	f := newFixture(t, reminderAt("a", "Calculus", t0.Add(time.Minute)), reminderAt("b", "Physics", t0.Add(2*time.Minute)))
	assert.Equal(t, 3, f.clk.Pending())
	f.svc.Stop()
	assert.Zero(t, f.clk.Pending())
	f.source.set(reminderAt("c", "Chemistry", t0.Add(time.Minute)))
	f.clk.Advance(time.Hour)
	assert.Empty(t, f.channel.deliveries)
}
