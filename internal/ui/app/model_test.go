package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	agendadto "estudozen/internal/modules/agenda/dto"
	focusdto "estudozen/internal/modules/focus/dto"
	statsdto "estudozen/internal/modules/stats/dto"
	timerdto "estudozen/internal/modules/timer/dto"
	"estudozen/internal/ui/components"
	timerview "estudozen/internal/ui/views/timer"
)

func TestParseQuickAdd(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

	in, err := ParseQuickAdd([]string{"16:30", "10", "Calculus", "review"}, now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if in.Title != "Calculus review" || in.Type != "study" {
		t.Fatalf("unexpected item: %+v", in)
	}
	if want := time.Date(2026, 3, 4, 16, 30, 0, 0, time.UTC); !in.StartTime.Equal(want) {
		t.Fatalf("start = %v, want %v", in.StartTime, want)
	}
	if !in.Reminder || !in.ReminderTime.Equal(in.StartTime.Add(-10*time.Minute)) {
		t.Fatalf("reminder = %v %v", in.Reminder, in.ReminderTime)
	}

	tomorrow, err := ParseQuickAdd([]string{"09:00", "0", "Physics"}, now)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if tomorrow.StartTime.Day() != 5 || tomorrow.Reminder {
		t.Fatalf("expected next-day item without reminder, got %+v", tomorrow)
	}

	for _, bad := range [][]string{{"16:30", "10"}, {"25:00", "1", "x"}, {"16:30", "-1", "x"}} {
		if _, err := ParseQuickAdd(bad, now); err == nil {
			t.Fatalf("expected usage error for %v", bad)
		}
	}
}

type fakeTimer struct {
	session timerdto.SessionOutput
	starts  int
	pauses  int
}

func (f *fakeTimer) Start(context.Context, string, string, string) (timerdto.SessionOutput, error) {
	f.starts++
	f.session.State = "running"
	return f.session, nil
}

func (f *fakeTimer) Pause(context.Context) (timerdto.SessionOutput, error) {
	f.pauses++
	f.session.State = "paused"
	return f.session, nil
}

func (f *fakeTimer) Reset(context.Context) (timerdto.SessionOutput, error) { return f.session, nil }
func (f *fakeTimer) SetDuration(context.Context, int) (timerdto.SessionOutput, error) {
	return f.session, nil
}
func (f *fakeTimer) SetMode(context.Context, string) (timerdto.SessionOutput, error) {
	return f.session, nil
}
func (f *fakeTimer) Status(context.Context) timerdto.SessionOutput { return f.session }
func (f *fakeTimer) Annotate(context.Context, string, string, string) (timerdto.SessionOutput, error) {
	return f.session, nil
}

type fakeAgenda struct{ added []agendadto.CreateItemInput }

func (f *fakeAgenda) List(context.Context) ([]agendadto.ItemOutput, error) { return nil, nil }
func (f *fakeAgenda) Done(context.Context, string, bool) (agendadto.ItemOutput, error) {
	return agendadto.ItemOutput{}, nil
}
func (f *fakeAgenda) Remove(context.Context, string) error { return nil }
func (f *fakeAgenda) Add(_ context.Context, in agendadto.CreateItemInput) (agendadto.ItemOutput, error) {
	f.added = append(f.added, in)
	return agendadto.ItemOutput{Title: in.Title}, nil
}

type fakeFocus struct{ state focusdto.StateOutput }

func (f *fakeFocus) Status(context.Context) focusdto.StateOutput { return f.state }
func (f *fakeFocus) On(context.Context) (focusdto.StateOutput, error) {
	f.state.IsBlocked = true
	return f.state, nil
}
func (f *fakeFocus) Off(context.Context) (focusdto.StateOutput, error) {
	f.state.IsBlocked = false
	return f.state, nil
}
func (f *fakeFocus) RequestPermission(context.Context) (focusdto.StateOutput, error) {
	return f.state, nil
}

type fakeStats struct{}

func (fakeStats) Show(context.Context) (statsdto.SummaryOutput, statsdto.ScheduledStudyOutput, error) {
	return statsdto.SummaryOutput{}, statsdto.ScheduledStudyOutput{}, nil
}
func (fakeStats) Weekly(context.Context) []statsdto.BucketOutput   { return nil }
func (fakeStats) Types(context.Context) []statsdto.TypeShareOutput { return nil }

// run feeds msg to the model and then every message its command produces.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		next, cmd := m.Update(queue[0])
		m = next.(Model)
		queue = queue[1:]
		if cmd == nil {
			continue
		}
		switch out := cmd().(type) {
		case nil:
		case tea.BatchMsg:
			for _, c := range out {
				if c != nil {
					queue = append(queue, c())
				}
			}
		default:
			queue = append(queue, out)
		}
	}
	return m
}

func TestSpaceTogglesTimer(t *testing.T) {
	timer := &fakeTimer{session: timerdto.SessionOutput{Mode: "count-down", State: "idle", InitialDuration: 1500, Remaining: 1500}}
	m := NewModel(timer, &fakeAgenda{}, &fakeFocus{}, fakeStats{})
	m = run(t, m, timerview.SessionMsg{Session: timer.session})

	m = run(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if timer.starts != 1 || m.timerView.Session().State != "running" {
		t.Fatalf("expected a start, got starts=%d state=%s", timer.starts, m.timerView.Session().State)
	}
	m = run(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if timer.pauses != 1 {
		t.Fatalf("expected a pause, got %d", timer.pauses)
	}
}

func TestPaletteCommands(t *testing.T) {
	agenda := &fakeAgenda{}
	focus := &fakeFocus{state: focusdto.StateOutput{Permission: "granted"}}
	m := NewModel(&fakeTimer{}, agenda, focus, fakeStats{})
	m.now = func() time.Time { return time.Date(2026, 3, 4, 8, 0, 0, 0, time.UTC) }

	m = run(t, m, palette("dnd:on"))
	if !focus.state.IsBlocked || !m.timerView.Focus().IsBlocked {
		t.Fatal("dnd:on should block alerts")
	}

	m = run(t, m, palette("agenda:add 10:00 15 Chemistry lab"))
	if len(agenda.added) != 1 || agenda.added[0].Title != "Chemistry lab" {
		t.Fatalf("unexpected adds: %+v", agenda.added)
	}
	if m.activeTab != tabAgenda {
		t.Fatalf("expected agenda tab, got %d", m.activeTab)
	}

	m = run(t, m, palette("nope"))
	if m.status != "unknown command: nope" {
		t.Fatalf("status = %q", m.status)
	}
}

func palette(input string) tea.Msg {
	return components.PaletteSubmitMsg{Input: input}
}
