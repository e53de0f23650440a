package in

import (
	"context"

	"estudozen/internal/modules/reminder/dto"
)

type Usecase interface {
	// Start schedules every eligible item and follows the item change stream
	// until Stop.
	Start(ctx context.Context) error
	Stop()
	Recompute(ctx context.Context) error
	Pending(ctx context.Context) []dto.PendingOutput
}
