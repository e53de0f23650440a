package bootstrap

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	agendadto "estudozen/internal/modules/agenda/dto"
	focusdto "estudozen/internal/modules/focus/dto"
	statsdto "estudozen/internal/modules/stats/dto"
	timerdto "estudozen/internal/modules/timer/dto"
	uiapp "estudozen/internal/ui/app"
	agendaview "estudozen/internal/ui/views/agenda"
	statsview "estudozen/internal/ui/views/stats"
	timerview "estudozen/internal/ui/views/timer"
)

// RunTUI shows the focus view. Module subscriptions are forwarded into the
// program so ticks and changes from other invocations render live. Alerts
// stay with the daemon; printing them here would tear the alt screen.
func RunTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := uiapp.NewModel(app.TimerCLI, app.AgendaCLI, app.FocusCLI, app.StatsCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	// Subscriptions fire synchronously, some of them before Run starts
	// reading. A single forwarder keeps them ordered; every message is a full
	// snapshot, so one dropped under backlog is superseded by the next.
	msgs := make(chan tea.Msg, 64)
	forward := func(msg tea.Msg) {
		select {
		case msgs <- msg:
		default:
		}
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				program.Send(msg)
			}
		}
	}()

	unsubscribe := []func(){
		app.TimerCLI.Subscribe(func(s timerdto.SessionOutput) {
			forward(timerview.SessionMsg{Session: s})
		}),
		app.FocusCLI.Subscribe(func(st focusdto.StateOutput) {
			forward(timerview.FocusMsg{State: st})
		}),
		app.AgendaCLI.Subscribe(func(items []agendadto.ItemOutput) {
			forward(agendaview.ItemsMsg{Items: items})
		}),
		app.StatsCLI.Subscribe(func(s statsdto.SummaryOutput) {
			forward(statsview.SummaryMsg{Summary: s})
		}),
	}
	defer func() {
		for _, fn := range unsubscribe {
			fn()
		}
	}()

	if err := app.follow(ctx); err != nil {
		app.Logger.Warn("external changes will not be followed", "error", err)
	}
	_, err := program.Run()
	return err
}
