package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	agendadto "estudozen/internal/modules/agenda/dto"
	focusdto "estudozen/internal/modules/focus/dto"
	timerdto "estudozen/internal/modules/timer/dto"
	"estudozen/internal/ui/components"
	"estudozen/internal/ui/theme"
	agendaview "estudozen/internal/ui/views/agenda"
	statsview "estudozen/internal/ui/views/stats"
	timerview "estudozen/internal/ui/views/timer"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type timerPort interface {
	timerview.TimerPort
	Annotate(ctx context.Context, activity, audio, sessionType string) (timerdto.SessionOutput, error)
}

type agendaPort interface {
	agendaview.AgendaPort
	Add(ctx context.Context, input agendadto.CreateItemInput) (agendadto.ItemOutput, error)
}

type focusPort interface {
	Status(ctx context.Context) focusdto.StateOutput
	On(ctx context.Context) (focusdto.StateOutput, error)
	Off(ctx context.Context) (focusdto.StateOutput, error)
	RequestPermission(ctx context.Context) (focusdto.StateOutput, error)
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabTimer tabID = iota
	tabAgenda
	tabStats
	tabCount
)

var tabLabels = [tabCount]string{"Timer", "Agenda", "Stats"}

// ─── async messages ──────────────────────────────────────────────────────────

type focusResultMsg struct {
	action string
	state  focusdto.StateOutput
	err    error
}

type agendaAddedMsg struct {
	item agendadto.ItemOutput
	err  error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Toggle  key.Binding
	Reset   key.Binding
	Mode    key.Binding
	Length  key.Binding
	DND     key.Binding
	Done    key.Binding
	Remove  key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Toggle:  key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset timer")),
		Mode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "count up/down")),
		Length:  key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "duration ±5m")),
		DND:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "do not disturb")),
		Done:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
		Remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete item")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Reset, k.Mode, k.Length},
		{k.DND, k.Done, k.Remove},
		{k.Tab, k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the help overlay
// and the command palette; each tab renders through its own view.
type Model struct {
	timer  timerPort
	agenda agendaPort
	focus  focusPort
	now    func() time.Time

	timerView  timerview.Model
	agendaView agendaview.Model
	statsView  statsview.Model

	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	status    string
	width     int
	height    int
}

func NewModel(timer timerPort, agenda agendaPort, focus focusPort, stats statsview.StatsPort) Model {
	return Model{
		timer:      timer,
		agenda:     agenda,
		focus:      focus,
		now:        time.Now,
		timerView:  timerview.New(timer),
		agendaView: agendaview.New(agenda),
		statsView:  statsview.New(stats),
		activeTab:  tabTimer,
		keys:       defaultKeys(),
		help:       help.New(),
		palette:    components.NewPalette(),
		status:     "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.timerView.Init(),
		m.agendaView.Init(),
		m.statsView.Init(),
		m.loadFocusCmd(),
	)
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	// Subscription pushes go to their view whatever tab is showing.
	case timerview.SessionMsg, timerview.FocusMsg:
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd
	case agendaview.ItemsMsg:
		var cmd tea.Cmd
		m.agendaView, cmd = m.agendaView.Update(msg)
		return m, cmd
	case statsview.SummaryMsg:
		var cmd tea.Cmd
		m.statsView, cmd = m.statsView.Update(msg)
		return m, cmd

	case timerview.ResultMsg:
		if msg.Err != nil {
			m.status = msg.Action + ": " + msg.Err.Error()
		} else {
			m.status = fmt.Sprintf("%s: %s", msg.Action, msg.Session.State)
		}
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(msg)
		return m, cmd

	case agendaview.ActionMsg:
		if msg.Err != nil {
			m.status = "agenda: " + msg.Err.Error()
		}
		return m, nil

	case agendaAddedMsg:
		if msg.err != nil {
			m.status = "agenda: " + msg.err.Error()
		} else {
			m.status = "added " + msg.item.Title
		}
		return m, nil

	case focusResultMsg:
		if msg.err != nil {
			m.status = msg.action + ": " + msg.err.Error()
			return m, nil
		}
		if msg.action != "" {
			m.status = fmt.Sprintf("%s: blocked=%t permission=%s", msg.action, msg.state.IsBlocked, msg.state.Permission)
		}
		var cmd tea.Cmd
		m.timerView, cmd = m.timerView.Update(timerview.FocusMsg{State: msg.state})
		return m, cmd

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.activeTab == tabAgenda && m.agendaView.Filtering() {
			break
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "b":
			if m.timerView.Focus().IsBlocked {
				return m, m.focusCmd("dnd off", m.focus.Off)
			}
			return m, m.focusCmd("dnd on", m.focus.On)
		}
	}

	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabTimer:
		m.timerView, tabCmd = m.timerView.Update(msg)
	case tabAgenda:
		m.agendaView, tabCmd = m.agendaView.Update(msg)
	case tabStats:
		m.statsView, tabCmd = m.statsView.Update(msg)
	}
	cmds = append(cmds, tabCmd)
	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.activeView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabTimer:
		return m.timerView.View()
	case tabAgenda:
		return m.agendaView.View()
	case tabStats:
		return m.statsView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + tabLabels[i] + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + tabLabels[i] + " ")
		}
	}
	bar := "estudozen  " + strings.Join(parts, theme.Muted.Render(" │ "))
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	session := m.timerView.Session()
	left := theme.DND(m.timerView.Focus().IsBlocked) + "  "
	if session.State == "running" || session.State == "paused" {
		left += theme.ForState(session.State).Render(timerview.Clock(session.Shown())) + "  "
	}
	left += m.status
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	rest := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "timer:start":
		return m, m.timerCmd("start", func(ctx context.Context) (timerdto.SessionOutput, error) {
			return m.timer.Start(ctx, rest, "", "")
		})

	case "timer:note":
		if rest == "" {
			m.status = "usage: timer:note <activity>"
			return m, nil
		}
		return m, m.timerCmd("note", func(ctx context.Context) (timerdto.SessionOutput, error) {
			return m.timer.Annotate(ctx, rest, "", "")
		})

	case "timer:audio":
		if rest == "" {
			m.status = "usage: timer:audio <track>"
			return m, nil
		}
		return m, m.timerCmd("audio", func(ctx context.Context) (timerdto.SessionOutput, error) {
			return m.timer.Annotate(ctx, "", rest, "")
		})

	case "timer:duration":
		minutes, err := strconv.Atoi(rest)
		if err != nil {
			m.status = "usage: timer:duration <minutes>"
			return m, nil
		}
		return m, m.timerCmd("duration", func(ctx context.Context) (timerdto.SessionOutput, error) {
			return m.timer.SetDuration(ctx, minutes)
		})

	case "timer:mode":
		return m, m.timerCmd("mode", func(ctx context.Context) (timerdto.SessionOutput, error) {
			return m.timer.SetMode(ctx, rest)
		})

	case "dnd:on":
		return m, m.focusCmd("dnd on", m.focus.On)

	case "dnd:off":
		return m, m.focusCmd("dnd off", m.focus.Off)

	case "dnd:permission":
		return m, m.focusCmd("permission", m.focus.RequestPermission)

	case "agenda:add":
		input, err := ParseQuickAdd(parts[1:], m.now())
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.activeTab = tabAgenda
		return m, func() tea.Msg {
			item, err := m.agenda.Add(context.Background(), input)
			return agendaAddedMsg{item: item, err: err}
		}

	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ParseQuickAdd reads "<HH:MM> <remind-min> <title...>" into an item starting
// at the next occurrence of HH:MM after now. A remind-min of 0 sets no
// reminder.
func ParseQuickAdd(args []string, now time.Time) (agendadto.CreateItemInput, error) {
	usage := fmt.Errorf("usage: agenda:add <HH:MM> <remind-min> <title>")
	if len(args) < 3 {
		return agendadto.CreateItemInput{}, usage
	}
	clock, err := time.ParseInLocation("15:04", args[0], now.Location())
	if err != nil {
		return agendadto.CreateItemInput{}, usage
	}
	lead, err := strconv.Atoi(args[1])
	if err != nil || lead < 0 {
		return agendadto.CreateItemInput{}, usage
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if !start.After(now) {
		start = start.AddDate(0, 0, 1)
	}
	input := agendadto.CreateItemInput{
		Title:     strings.Join(args[2:], " "),
		Type:      "study",
		StartTime: start,
	}
	if lead > 0 {
		input.Reminder = true
		input.ReminderTime = start.Add(-time.Duration(lead) * time.Minute)
	}
	return input, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.timerView, _ = m.timerView.Update(sz)
	m.agendaView, _ = m.agendaView.Update(sz)
	m.statsView, _ = m.statsView.Update(sz)
}

// ─── async commands ──────────────────────────────────────────────────────────

func (m Model) loadFocusCmd() tea.Cmd {
	return func() tea.Msg {
		return focusResultMsg{state: m.focus.Status(context.Background())}
	}
}

func (m Model) focusCmd(action string, fn func(context.Context) (focusdto.StateOutput, error)) tea.Cmd {
	return func() tea.Msg {
		state, err := fn(context.Background())
		return focusResultMsg{action: action, state: state, err: err}
	}
}

func (m Model) timerCmd(action string, fn func(context.Context) (timerdto.SessionOutput, error)) tea.Cmd {
	return func() tea.Msg {
		out, err := fn(context.Background())
		return timerview.ResultMsg{Action: action, Session: out, Err: err}
	}
}
