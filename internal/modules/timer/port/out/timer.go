package out

import (
	"context"

	"estudozen/internal/modules/timer/domain"
)

type SnapshotStore interface {
	Load(ctx context.Context) (domain.Session, bool, error)
	Save(ctx context.Context, session domain.Session) error
}

type DefaultDurationStore interface {
	LoadDefault(ctx context.Context) (int, bool, error)
	SaveDefault(ctx context.Context, seconds int) error
}

// SessionSink receives every finished run exactly once.
type SessionSink interface {
	Record(ctx context.Context, finished domain.Finished) error
}

// FocusGate is told when focused study starts and stops.
type FocusGate interface {
	SessionStarted(ctx context.Context) error
	SessionEnded(ctx context.Context) error
}
