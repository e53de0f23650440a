package agenda

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	agendadto "estudozen/internal/modules/agenda/dto"
	"estudozen/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type AgendaPort interface {
	List(ctx context.Context) ([]agendadto.ItemOutput, error)
	Done(ctx context.Context, id string, completed bool) (agendadto.ItemOutput, error)
	Remove(ctx context.Context, id string) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// ItemsMsg replaces the listed items. The agenda subscription sends one after
// every change.
type ItemsMsg struct {
	Items []agendadto.ItemOutput
	Err   error
}

// ActionMsg reports a failed or finished toggle/remove.
type ActionMsg struct{ Err error }

// ─── list item ───────────────────────────────────────────────────────────────

type agendaItem struct {
	item agendadto.ItemOutput
}

func (i agendaItem) Title() string {
	if i.item.IsCompleted {
		return theme.Done.Render(i.item.Title)
	}
	return i.item.Title
}

func (i agendaItem) Description() string {
	desc := fmt.Sprintf("%s  %s", i.item.StartTime.Local().Format("Mon 02 Jan 15:04"), i.item.Type)
	if i.item.Reminder {
		desc += "  ⏰ " + i.item.ReminderTime.Local().Format("15:04")
	}
	return desc
}

func (i agendaItem) FilterValue() string { return i.item.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port   AgendaPort
	list   list.Model
	width  int
	height int
}

func New(port AgendaPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Agenda"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return Model{port: port, list: l}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		items, err := m.port.List(context.Background())
		return ItemsMsg{Items: items, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(m.width, m.height)

	case ItemsMsg:
		if msg.Err != nil {
			m.list.Title = "Agenda: " + msg.Err.Error()
			return m, nil
		}
		m.list.Title = "Agenda"
		items := make([]list.Item, len(msg.Items))
		for i, it := range msg.Items {
			items[i] = agendaItem{item: it}
		}
		cmds = append(cmds, m.list.SetItems(items))

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		selected, ok := m.list.SelectedItem().(agendaItem)
		if !ok {
			break
		}
		switch msg.String() {
		case "x":
			id, done := selected.item.ID, !selected.item.IsCompleted
			return m, func() tea.Msg {
				_, err := m.port.Done(context.Background(), id, done)
				return ActionMsg{Err: err}
			}
		case "d":
			id := selected.item.ID
			return m, func() tea.Msg {
				return ActionMsg{Err: m.port.Remove(context.Background(), id)}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.NewStyle().Width(m.width).Height(m.height).Render(m.list.View())
}

// Filtering reports whether the list's search filter is currently active.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
