package timer

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	focusdto "estudozen/internal/modules/focus/dto"
	timerdto "estudozen/internal/modules/timer/dto"
	"estudozen/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type TimerPort interface {
	Start(ctx context.Context, sessionType, activity, audio string) (timerdto.SessionOutput, error)
	Pause(ctx context.Context) (timerdto.SessionOutput, error)
	Reset(ctx context.Context) (timerdto.SessionOutput, error)
	SetDuration(ctx context.Context, minutes int) (timerdto.SessionOutput, error)
	SetMode(ctx context.Context, mode string) (timerdto.SessionOutput, error)
	Status(ctx context.Context) timerdto.SessionOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// SessionMsg carries a timer snapshot pushed by the timer subscription.
type SessionMsg struct{ Session timerdto.SessionOutput }

// FocusMsg carries the do-not-disturb state.
type FocusMsg struct{ State focusdto.StateOutput }

// ResultMsg reports the outcome of a user action.
type ResultMsg struct {
	Action  string
	Session timerdto.SessionOutput
	Err     error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port    TimerPort
	session timerdto.SessionOutput
	focus   focusdto.StateOutput
	bar     progress.Model
	width   int
	height  int
}

func New(port TimerPort) Model {
	bar := progress.New(progress.WithGradient(string(theme.Lavender), string(theme.Peach)), progress.WithoutPercentage())
	return Model{port: port, bar: bar}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		return SessionMsg{Session: m.port.Status(context.Background())}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = max(10, min(60, m.width-8))

	case SessionMsg:
		m.session = msg.Session

	case FocusMsg:
		m.focus = msg.State

	case ResultMsg:
		if msg.Err == nil {
			m.session = msg.Session
		}

	case tea.KeyMsg:
		switch msg.String() {
		case " ":
			if m.session.State == "running" {
				return m, m.act("pause", func(ctx context.Context) (timerdto.SessionOutput, error) {
					return m.port.Pause(ctx)
				})
			}
			return m, m.act("start", func(ctx context.Context) (timerdto.SessionOutput, error) {
				return m.port.Start(ctx, "", "", "")
			})
		case "r":
			return m, m.act("reset", func(ctx context.Context) (timerdto.SessionOutput, error) {
				return m.port.Reset(ctx)
			})
		case "m":
			mode := "up"
			if m.session.Mode == "count-up" {
				mode = "down"
			}
			return m, m.act("mode", func(ctx context.Context) (timerdto.SessionOutput, error) {
				return m.port.SetMode(ctx, mode)
			})
		case "+", "-":
			minutes := m.session.InitialDuration / 60
			if msg.String() == "+" {
				minutes += 5
			} else {
				minutes -= 5
			}
			return m, m.act("duration", func(ctx context.Context) (timerdto.SessionOutput, error) {
				return m.port.SetDuration(ctx, minutes)
			})
		}
	}
	return m, nil
}

func (m Model) View() string {
	s := m.session
	var sb strings.Builder

	sb.WriteString(theme.Clock.Render(Clock(s.Shown())) + "\n")
	sb.WriteString(theme.ForState(s.State).Render(strings.ToUpper(stateLabel(s.State))))
	sb.WriteString("  " + theme.Muted.Render(fmt.Sprintf("%s · %s", s.Mode, s.Type)) + "\n\n")

	if s.Mode == "count-down" && s.InitialDuration > 0 {
		done := float64(s.InitialDuration-s.Remaining) / float64(s.InitialDuration)
		sb.WriteString(m.bar.ViewAs(done) + "\n")
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("of %d min", s.InitialDuration/60)) + "\n\n")
	}

	if len(s.Activities) > 0 {
		sb.WriteString(theme.Title.Render("Activities") + "\n")
		for _, a := range s.Activities {
			sb.WriteString("  • " + a + "\n")
		}
		sb.WriteString("\n")
	}
	if s.AudioUsed != "" {
		sb.WriteString(theme.Muted.Render("audio: ") + s.AudioUsed + "\n")
	}
	sb.WriteString(theme.DND(m.focus.IsBlocked) + "  " + theme.Muted.Render("permission: "+m.focus.Permission) + "\n\n")
	sb.WriteString(theme.Muted.Render("space: start/pause  r: reset  m: mode  +/-: duration"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, theme.Pane.Render(sb.String()))
}

// Session returns the last snapshot the view received.
func (m Model) Session() timerdto.SessionOutput { return m.session }

// Focus returns the last do-not-disturb state the view received.
func (m Model) Focus() focusdto.StateOutput { return m.focus }

// ─── private ─────────────────────────────────────────────────────────────────

func (m Model) act(action string, fn func(context.Context) (timerdto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return ResultMsg{Action: action, Session: out, Err: err}
	}
}

// Clock formats seconds as mm:ss, or h:mm:ss past an hour.
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, s := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func stateLabel(state string) string {
	if state == "" {
		return "idle"
	}
	return state
}
