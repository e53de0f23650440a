package in

import (
	"context"

	"estudozen/internal/modules/reminder/dto"
	reminderin "estudozen/internal/modules/reminder/port/in"
)

type CLIHandler struct {
	usecase reminderin.Usecase
}

func NewCLIHandler(usecase reminderin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

// Pending computes the schedule from the current agenda without keeping it.
func (h CLIHandler) Pending(ctx context.Context) ([]dto.PendingOutput, error) {
	if err := h.usecase.Recompute(ctx); err != nil {
		return nil, err
	}
	defer h.usecase.Stop()
	return h.usecase.Pending(ctx), nil
}
