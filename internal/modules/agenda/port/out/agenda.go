package out

import (
	"context"

	"estudozen/internal/modules/agenda/domain"
)

type ItemStore interface {
	Load(ctx context.Context) ([]domain.Item, error)
	// Update runs fn as one read-modify-write over the whole collection.
	Update(ctx context.Context, fn func([]domain.Item) ([]domain.Item, error)) ([]domain.Item, error)
}
