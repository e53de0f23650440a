package in

import (
	"context"

	"estudozen/internal/modules/focus/dto"
	focusin "estudozen/internal/modules/focus/port/in"
)

type CLIHandler struct {
	usecase focusin.Usecase
}

func NewCLIHandler(usecase focusin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Status(ctx context.Context) dto.StateOutput {
	return h.usecase.State(ctx)
}

func (h CLIHandler) On(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Block(ctx)
}

func (h CLIHandler) Off(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.Unblock(ctx)
}

func (h CLIHandler) RequestPermission(ctx context.Context) (dto.StateOutput, error) {
	return h.usecase.RequestPermission(ctx)
}

func (h CLIHandler) SetPermission(ctx context.Context, permission string) (dto.StateOutput, error) {
	return h.usecase.SetPermission(ctx, permission)
}

func (h CLIHandler) Subscribe(fn func(dto.StateOutput)) func() {
	return h.usecase.Subscribe(fn)
}
