package usecase_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agendaout "estudozen/internal/modules/agenda/adapter/out"
	agendadto "estudozen/internal/modules/agenda/dto"
	agendain "estudozen/internal/modules/agenda/port/in"
	agendaservice "estudozen/internal/modules/agenda/service"
	agendausecase "estudozen/internal/modules/agenda/usecase"
	focusout "estudozen/internal/modules/focus/adapter/out"
	focusservice "estudozen/internal/modules/focus/service"
	focususecase "estudozen/internal/modules/focus/usecase"
	reminderout "estudozen/internal/modules/reminder/adapter/out"
	reminderin "estudozen/internal/modules/reminder/port/in"
	"estudozen/internal/modules/reminder/service"
	"estudozen/internal/modules/reminder/usecase"
	"estudozen/internal/platform/alert"
	"estudozen/internal/platform/clock"
	"estudozen/internal/platform/kv"
)

var t0 = time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("item-%d", s.n)
}

type harness struct {
	clk       *clock.Fake
	out       *bytes.Buffer
	agenda    agendain.Usecase
	gate      *focusservice.GateService
	reminders reminderin.Usecase
}

func newHarness(t *testing.T) harness {
	t.Helper()
	store, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	clk := clock.NewFake(t0)

	agenda := agendausecase.NewInteractor(agendaservice.NewAgendaService(clk, &seqID{}, agendaout.NewKVItemStore(store), nil))

	out := &bytes.Buffer{}
	terminal := alert.NewTerminal(out, alert.PermissionGranted, nil)
	gate := focusservice.NewGateService(terminal, focusout.NewKVStateStore(store), nil)
	require.NoError(t, gate.Load(ctx))

	svc := service.NewSchedulerService(
		clk,
		reminderout.NewAgendaSource(agenda),
		reminderout.NewFocusGate(focususecase.NewInteractor(gate)),
		terminal,
		nil,
		nil,
		service.DefaultSweepInterval,
	)
	reminders := usecase.NewInteractor(svc)
	require.NoError(t, reminders.Start(ctx))
	t.Cleanup(reminders.Stop)
	return harness{clk: clk, out: out, agenda: agenda, gate: gate, reminders: reminders}
}

func (h harness) create(t *testing.T, title string, remindIn time.Duration) agendadto.ItemOutput {
	t.Helper()
	item, err := h.agenda.Create(context.Background(), agendadto.CreateItemInput{
		Title:        title,
		Description:  "chapter 3",
		StartTime:    t0.Add(remindIn + 15*time.Minute),
		Reminder:     true,
		ReminderTime: t0.Add(remindIn),
	})
	require.NoError(t, err)
	return item
}

func TestAgendaChangesDriveReminders(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	first := h.create(t, "Calculus", 5*time.Second)
	h.create(t, "Physics", 10*time.Second)
	pending := h.reminders.Pending(ctx)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ItemID)

	h.clk.Advance(2 * time.Second)
	require.NoError(t, h.agenda.Delete(ctx, first.ID))
	assert.Len(t, h.reminders.Pending(ctx), 1)

	h.clk.Advance(10 * time.Second)
	alerts := h.out.String()
	assert.NotContains(t, alerts, "Calculus")
	assert.Contains(t, alerts, "Physics")
	assert.Contains(t, alerts, "chapter 3")
	assert.Equal(t, 1, strings.Count(alerts, "\a"))
}

func TestCompletingAnItemCancelsItsReminder(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	item := h.create(t, "Calculus", time.Minute)
	_, err := h.agenda.Complete(ctx, item.ID, true)
	require.NoError(t, err)
	assert.Empty(t, h.reminders.Pending(ctx))

	h.clk.Advance(2 * time.Minute)
	assert.Empty(t, h.out.String())
}

func TestDoNotDisturbDropsReminder(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	h.create(t, "Calculus", 5*time.Second)
	_, err := h.gate.Block(ctx)
	require.NoError(t, err)
	h.clk.Advance(6 * time.Second)
	assert.Empty(t, h.out.String())

	_, err = h.gate.Unblock(ctx)
	require.NoError(t, err)
	h.clk.Advance(5 * time.Minute)
	assert.Empty(t, h.out.String(), "suppressed reminders are not replayed")
}
