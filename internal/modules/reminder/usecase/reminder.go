package usecase

import (
	"context"

	"estudozen/internal/modules/reminder/dto"
	reminderin "estudozen/internal/modules/reminder/port/in"
	"estudozen/internal/modules/reminder/service"
)

type Interactor struct {
	svc *service.SchedulerService
}

func NewInteractor(svc *service.SchedulerService) reminderin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Start(ctx context.Context) error {
	return i.svc.Start(ctx)
}

func (i *Interactor) Stop() {
	i.svc.Stop()
}

func (i *Interactor) Recompute(ctx context.Context) error {
	return i.svc.Recompute(ctx)
}

func (i *Interactor) Pending(context.Context) []dto.PendingOutput {
	pending := i.svc.Pending()
	out := make([]dto.PendingOutput, 0, len(pending))
	for _, p := range pending {
		out = append(out, dto.PendingOutput{ItemID: p.ItemID, Title: p.Title, FireAt: p.FireAt})
	}
	return out
}
