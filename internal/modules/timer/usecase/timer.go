package usecase

import (
	"context"

	"estudozen/internal/modules/timer/domain"
	"estudozen/internal/modules/timer/dto"
	timerin "estudozen/internal/modules/timer/port/in"
	"estudozen/internal/modules/timer/service"
)

type Interactor struct {
	svc *service.TimerService
}

func NewInteractor(svc *service.TimerService) timerin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error) {
	return output(i.svc.Start(ctx, input.Type))
}

func (i *Interactor) Pause(ctx context.Context) (dto.SessionOutput, error) {
	return output(i.svc.Pause(ctx))
}

func (i *Interactor) Reset(ctx context.Context) (dto.SessionOutput, error) {
	return output(i.svc.Reset(ctx))
}

func (i *Interactor) SetDuration(ctx context.Context, seconds int) (dto.SessionOutput, error) {
	return output(i.svc.SetDuration(ctx, seconds))
}

func (i *Interactor) SetMode(ctx context.Context, mode string) (dto.SessionOutput, error) {
	m, err := domain.ParseMode(mode)
	if err != nil {
		return toOutput(i.svc.Snapshot()), err
	}
	return output(i.svc.SetMode(ctx, m))
}

func (i *Interactor) Annotate(ctx context.Context, input dto.AnnotateInput) (dto.SessionOutput, error) {
	return output(i.svc.Annotate(ctx, input.Activity, input.AudioUsed, input.Type))
}

func (i *Interactor) Status(_ context.Context) dto.SessionOutput {
	return toOutput(i.svc.Snapshot())
}

func (i *Interactor) Subscribe(fn func(dto.SessionOutput)) func() {
	return i.svc.Subscribe(func(s domain.Session) {
		fn(toOutput(s))
	})
}

func (i *Interactor) Reload(ctx context.Context) error {
	_, err := i.svc.Restore(ctx)
	return err
}

func (i *Interactor) Close(ctx context.Context) error {
	return i.svc.Close(ctx)
}

func output(s domain.Session, err error) (dto.SessionOutput, error) {
	return toOutput(s), err
}

func toOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		SessionID:       s.SessionID,
		Mode:            string(s.Mode),
		State:           string(s.State),
		Elapsed:         s.Elapsed,
		Remaining:       s.Remaining,
		InitialDuration: s.InitialDuration,
		Type:            s.Type,
		AudioUsed:       s.AudioUsed,
		Activities:      append([]string(nil), s.Activities...),
		StartedAt:       s.StartedAt,
	}
}
