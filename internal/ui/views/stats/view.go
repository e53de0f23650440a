package stats

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	statsdto "estudozen/internal/modules/stats/dto"
	"estudozen/internal/ui/theme"
)

// ─── port ────────────────────────────────────────────────────────────────────

type StatsPort interface {
	Show(ctx context.Context) (statsdto.SummaryOutput, statsdto.ScheduledStudyOutput, error)
	Weekly(ctx context.Context) []statsdto.BucketOutput
	Types(ctx context.Context) []statsdto.TypeShareOutput
}

// ─── messages ────────────────────────────────────────────────────────────────

// SummaryMsg signals that the ledger changed.
type SummaryMsg struct{ Summary statsdto.SummaryOutput }

type loadedMsg struct {
	summary   statsdto.SummaryOutput
	scheduled statsdto.ScheduledStudyOutput
	weekly    []statsdto.BucketOutput
	types     []statsdto.TypeShareOutput
	err       error
}

// ─── model ───────────────────────────────────────────────────────────────────

type Model struct {
	port      StatsPort
	summary   statsdto.SummaryOutput
	scheduled statsdto.ScheduledStudyOutput
	weekly    []statsdto.BucketOutput
	types     []statsdto.TypeShareOutput
	err       error
	width     int
	height    int
}

func New(port StatsPort) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case SummaryMsg:
		m.summary = msg.Summary
		return m, m.loadCmd()
	case loadedMsg:
		m.summary, m.scheduled, m.weekly, m.types, m.err = msg.summary, msg.scheduled, msg.weekly, msg.types, msg.err
	}
	return m, nil
}

func (m Model) View() string {
	s := m.summary
	var left strings.Builder
	left.WriteString(theme.Title.Render("Ledger") + "\n\n")
	left.WriteString(fmt.Sprintf("%s%d min\n", theme.Muted.Render("total:     "), s.TotalStudyTime))
	left.WriteString(fmt.Sprintf("%s%d of %d\n", theme.Muted.Render("completed: "), s.SessionsCompleted, s.SessionsRecorded))
	left.WriteString(fmt.Sprintf("%s%s\n", theme.Muted.Render("streak:    "), theme.Hot.Render(fmt.Sprintf("%d days", s.StudyStreak))))
	left.WriteString(fmt.Sprintf("%s%d days\n", theme.Muted.Render("longest:   "), s.LongestStreak))
	if !s.LastStudyDate.IsZero() {
		left.WriteString(theme.Muted.Render("last:      ") + s.LastStudyDate.Format("Mon 02 Jan") + "\n")
	}
	if m.scheduled.Total > 0 {
		left.WriteString(fmt.Sprintf("%s%d/%d (%.0f%%)\n", theme.Muted.Render("scheduled: "), m.scheduled.Completed, m.scheduled.Total, m.scheduled.Ratio*100))
	}
	if m.err != nil {
		left.WriteString("\n" + theme.Hot.Render(m.err.Error()) + "\n")
	}

	var right strings.Builder
	right.WriteString(theme.Title.Render("This week") + "\n\n")
	right.WriteString(Bars(m.weekly, 24))
	if len(m.types) > 0 {
		right.WriteString("\n" + theme.Title.Render("By type") + "\n\n")
		for _, t := range m.types {
			right.WriteString(fmt.Sprintf("%-12s %4d min\n", t.Type, t.Minutes))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, theme.Pane.Render(left.String()), " ", theme.Pane.Render(right.String()))
}

// Bars renders one horizontal bar per bucket scaled to width.
func Bars(buckets []statsdto.BucketOutput, width int) string {
	peak := 0
	for _, b := range buckets {
		peak = max(peak, b.Minutes)
	}
	var sb strings.Builder
	for _, b := range buckets {
		n := 0
		if peak > 0 {
			n = b.Minutes * width / peak
		}
		sb.WriteString(fmt.Sprintf("%-4s %s %d\n", b.Label, theme.Hot.Render(strings.Repeat("█", n)), b.Minutes))
	}
	return sb.String()
}

func (m Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		summary, scheduled, err := m.port.Show(ctx)
		return loadedMsg{
			summary:   summary,
			scheduled: scheduled,
			weekly:    m.port.Weekly(ctx),
			types:     m.port.Types(ctx),
			err:       err,
		}
	}
}
