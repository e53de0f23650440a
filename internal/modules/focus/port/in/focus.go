package in

import (
	"context"

	"estudozen/internal/modules/focus/dto"
)

type Usecase interface {
	State(ctx context.Context) dto.StateOutput
	Block(ctx context.Context) (dto.StateOutput, error)
	Unblock(ctx context.Context) (dto.StateOutput, error)
	StartStudySession(ctx context.Context) (dto.StateOutput, error)
	EndStudySession(ctx context.Context) (dto.StateOutput, error)
	RequestPermission(ctx context.Context) (dto.StateOutput, error)
	SetPermission(ctx context.Context, permission string) (dto.StateOutput, error)
	Reload(ctx context.Context) error
	Subscribe(fn func(dto.StateOutput)) func()
}
