package out

import (
	"context"

	"estudozen/internal/modules/focus/domain"
	"estudozen/internal/platform/alert"
)

// AlertChannel is the capability side of the external alert channel.
type AlertChannel interface {
	Permission() alert.Permission
	RequestPermission(ctx context.Context) (alert.Permission, error)
	SetPermission(ctx context.Context, p alert.Permission) error
}

type StateStore interface {
	Load(ctx context.Context) (domain.State, bool, error)
	Save(ctx context.Context, state domain.State) error
}
