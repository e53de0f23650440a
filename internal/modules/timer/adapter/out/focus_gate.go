package out

import (
	"context"

	focusin "estudozen/internal/modules/focus/port/in"
	timerout "estudozen/internal/modules/timer/port/out"
)

// FocusGate turns study time into do-not-disturb requests.
type FocusGate struct {
	focus focusin.Usecase
}

func NewFocusGate(focus focusin.Usecase) timerout.FocusGate {
	return FocusGate{focus: focus}
}

func (g FocusGate) SessionStarted(ctx context.Context) error {
	_, err := g.focus.StartStudySession(ctx)
	return err
}

func (g FocusGate) SessionEnded(ctx context.Context) error {
	_, err := g.focus.EndStudySession(ctx)
	return err
}
