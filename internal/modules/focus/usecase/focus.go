package usecase

import (
	"context"
	"fmt"

	"estudozen/internal/modules/focus/domain"
	"estudozen/internal/modules/focus/dto"
	focusin "estudozen/internal/modules/focus/port/in"
	"estudozen/internal/modules/focus/service"
	"estudozen/internal/platform/alert"
	apperrors "estudozen/internal/platform/errors"
)

type Interactor struct {
	svc *service.GateService
}

func NewInteractor(svc *service.GateService) focusin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) State(context.Context) dto.StateOutput {
	return toOutput(i.svc.State())
}

func (i *Interactor) Block(ctx context.Context) (dto.StateOutput, error) {
	st, err := i.svc.Block(ctx)
	return toOutput(st), err
}

func (i *Interactor) Unblock(ctx context.Context) (dto.StateOutput, error) {
	st, err := i.svc.Unblock(ctx)
	return toOutput(st), err
}

func (i *Interactor) StartStudySession(ctx context.Context) (dto.StateOutput, error) {
	st, err := i.svc.StartStudySession(ctx)
	return toOutput(st), err
}

func (i *Interactor) EndStudySession(ctx context.Context) (dto.StateOutput, error) {
	st, err := i.svc.EndStudySession(ctx)
	return toOutput(st), err
}

func (i *Interactor) RequestPermission(ctx context.Context) (dto.StateOutput, error) {
	st, err := i.svc.RequestPermission(ctx)
	return toOutput(st), err
}

func (i *Interactor) SetPermission(ctx context.Context, permission string) (dto.StateOutput, error) {
	perm, err := alert.ParsePermission(permission)
	if err != nil {
		return dto.StateOutput{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	st, err := i.svc.SetPermission(ctx, perm)
	return toOutput(st), err
}

func (i *Interactor) Reload(ctx context.Context) error {
	return i.svc.Load(ctx)
}

func (i *Interactor) Subscribe(fn func(dto.StateOutput)) func() {
	return i.svc.Subscribe(func(st domain.State) { fn(toOutput(st)) })
}

func toOutput(st domain.State) dto.StateOutput {
	return dto.StateOutput{
		Permission:          string(st.Permission),
		EffectivePermission: string(st.EffectivePermission()),
		IsBlocked:           st.IsBlocked,
		IsSessionActive:     st.IsSessionActive,
		IsManual:            st.IsManual,
	}
}
