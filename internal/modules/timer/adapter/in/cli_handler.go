package in

import (
	"context"
	"fmt"

	"estudozen/internal/modules/timer/dto"
	timerin "estudozen/internal/modules/timer/port/in"
	apperrors "estudozen/internal/platform/errors"
)

type CLIHandler struct {
	usecase timerin.Usecase
}

func NewCLIHandler(usecase timerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, sessionType, activity, audio string) (dto.SessionOutput, error) {
	if activity != "" || audio != "" {
		if _, err := h.usecase.Annotate(ctx, dto.AnnotateInput{Activity: activity, AudioUsed: audio}); err != nil {
			return dto.SessionOutput{}, err
		}
	}
	return h.usecase.Start(ctx, dto.StartInput{Type: sessionType})
}

func (h CLIHandler) Pause(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Reset(ctx context.Context) (dto.SessionOutput, error) {
	return h.usecase.Reset(ctx)
}

func (h CLIHandler) Status(ctx context.Context) dto.SessionOutput {
	return h.usecase.Status(ctx)
}

// SetDuration takes minutes. Out-of-range values are rejected before the
// conversion to seconds so it cannot overflow.
func (h CLIHandler) SetDuration(ctx context.Context, minutes int) (dto.SessionOutput, error) {
	if minutes <= 0 || minutes > dto.MaxDurationMinutes {
		return dto.SessionOutput{}, fmt.Errorf("%w: %d minutes, want 1..%d", apperrors.ErrInvalidDuration, minutes, dto.MaxDurationMinutes)
	}
	return h.usecase.SetDuration(ctx, minutes*60)
}

func (h CLIHandler) SetMode(ctx context.Context, mode string) (dto.SessionOutput, error) {
	return h.usecase.SetMode(ctx, mode)
}

func (h CLIHandler) Annotate(ctx context.Context, activity, audio, sessionType string) (dto.SessionOutput, error) {
	return h.usecase.Annotate(ctx, dto.AnnotateInput{Activity: activity, AudioUsed: audio, Type: sessionType})
}

func (h CLIHandler) Subscribe(fn func(dto.SessionOutput)) func() {
	return h.usecase.Subscribe(fn)
}
