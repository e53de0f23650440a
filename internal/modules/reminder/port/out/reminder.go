package out

import (
	"context"

	"estudozen/internal/modules/reminder/domain"
)

type ItemSource interface {
	Items(ctx context.Context) ([]domain.Item, error)
	// Subscribe receives the full item set after every change.
	Subscribe(fn func([]domain.Item)) func()
}

type Gate interface {
	Status(ctx context.Context) domain.GateStatus
}

type AlertChannel interface {
	Deliver(ctx context.Context, title, body string) error
}
