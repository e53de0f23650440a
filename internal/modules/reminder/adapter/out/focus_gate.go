package out

import (
	"context"

	focusin "estudozen/internal/modules/focus/port/in"
	"estudozen/internal/modules/reminder/domain"
	reminderout "estudozen/internal/modules/reminder/port/out"
)

type FocusGate struct {
	focus focusin.Usecase
}

func NewFocusGate(focus focusin.Usecase) reminderout.Gate {
	return &FocusGate{focus: focus}
}

func (g *FocusGate) Status(ctx context.Context) domain.GateStatus {
	st := g.focus.State(ctx)
	return domain.GateStatus{Suppressed: st.IsBlocked, Permission: st.EffectivePermission}
}
