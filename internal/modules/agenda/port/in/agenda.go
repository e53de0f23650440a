package in

import (
	"context"

	"estudozen/internal/modules/agenda/dto"
)

type Usecase interface {
	Create(ctx context.Context, input dto.CreateItemInput) (dto.ItemOutput, error)
	Update(ctx context.Context, input dto.UpdateItemInput) (dto.ItemOutput, error)
	Delete(ctx context.Context, id string) error
	Complete(ctx context.Context, id string, completed bool) (dto.ItemOutput, error)
	Get(ctx context.Context, id string) (dto.ItemOutput, error)
	List(ctx context.Context) ([]dto.ItemOutput, error)
	Reload(ctx context.Context) error
	// Subscribe receives the full item list after every change.
	Subscribe(fn func([]dto.ItemOutput)) func()
}
