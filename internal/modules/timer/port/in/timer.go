package in

import (
	"context"

	"estudozen/internal/modules/timer/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.SessionOutput, error)
	Pause(ctx context.Context) (dto.SessionOutput, error)
	Reset(ctx context.Context) (dto.SessionOutput, error)
	SetDuration(ctx context.Context, seconds int) (dto.SessionOutput, error)
	SetMode(ctx context.Context, mode string) (dto.SessionOutput, error)
	Annotate(ctx context.Context, input dto.AnnotateInput) (dto.SessionOutput, error)
	Status(ctx context.Context) dto.SessionOutput
	Subscribe(fn func(dto.SessionOutput)) func()
	// Reload re-reads the persisted session, e.g. after another process
	// changed it.
	Reload(ctx context.Context) error
	Close(ctx context.Context) error
}
