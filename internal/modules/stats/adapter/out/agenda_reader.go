package out

import (
	"context"

	agendain "estudozen/internal/modules/agenda/port/in"
	"estudozen/internal/modules/stats/domain"
	statsout "estudozen/internal/modules/stats/port/out"
)

// AgendaReader exposes agenda items to the ledger without letting it write.
type AgendaReader struct {
	agenda agendain.Usecase
}

func NewAgendaReader(agenda agendain.Usecase) statsout.AgendaReader {
	return AgendaReader{agenda: agenda}
}

func (r AgendaReader) Entries(ctx context.Context) ([]domain.AgendaEntry, error) {
	items, err := r.agenda.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AgendaEntry, 0, len(items))
	for _, item := range items {
		out = append(out, domain.AgendaEntry{Type: item.Type, IsCompleted: item.IsCompleted})
	}
	return out, nil
}
