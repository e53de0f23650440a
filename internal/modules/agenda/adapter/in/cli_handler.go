package in

import (
	"context"

	"estudozen/internal/modules/agenda/dto"
	agendain "estudozen/internal/modules/agenda/port/in"
)

type CLIHandler struct {
	usecase agendain.Usecase
}

func NewCLIHandler(usecase agendain.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Add(ctx context.Context, input dto.CreateItemInput) (dto.ItemOutput, error) {
	return h.usecase.Create(ctx, input)
}

func (h CLIHandler) Edit(ctx context.Context, input dto.UpdateItemInput) (dto.ItemOutput, error) {
	return h.usecase.Update(ctx, input)
}

func (h CLIHandler) Remove(ctx context.Context, id string) error {
	return h.usecase.Delete(ctx, id)
}

func (h CLIHandler) Done(ctx context.Context, id string, completed bool) (dto.ItemOutput, error) {
	return h.usecase.Complete(ctx, id, completed)
}

func (h CLIHandler) List(ctx context.Context) ([]dto.ItemOutput, error) {
	return h.usecase.List(ctx)
}

func (h CLIHandler) Subscribe(fn func([]dto.ItemOutput)) func() {
	return h.usecase.Subscribe(fn)
}
