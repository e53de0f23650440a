package out

import (
	"context"

	"estudozen/internal/modules/stats/domain"
)

type AggregateStore interface {
	Load(ctx context.Context) (domain.Aggregate, error)
	// Update runs fn on the stored aggregate and saves its result as one
	// read-modify-write.
	Update(ctx context.Context, fn func(domain.Aggregate) (domain.Aggregate, error)) (domain.Aggregate, error)
}

// Journal keeps one note per recorded session.
type Journal interface {
	Write(ctx context.Context, record domain.SessionRecord) (string, error)
	ReadAll(ctx context.Context) ([]domain.SessionRecord, error)
}

// SessionIndex is a queryable projection of recorded sessions.
type SessionIndex interface {
	Upsert(ctx context.Context, record domain.SessionRecord) error
	Recent(ctx context.Context, limit int) ([]domain.SessionRecord, error)
	Reset(ctx context.Context) error
}

type AgendaReader interface {
	Entries(ctx context.Context) ([]domain.AgendaEntry, error)
}
