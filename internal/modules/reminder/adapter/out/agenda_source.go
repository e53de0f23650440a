package out

import (
	"context"

	agendadto "estudozen/internal/modules/agenda/dto"
	agendain "estudozen/internal/modules/agenda/port/in"
	"estudozen/internal/modules/reminder/domain"
	reminderout "estudozen/internal/modules/reminder/port/out"
)

type AgendaSource struct {
	agenda agendain.Usecase
}

func NewAgendaSource(agenda agendain.Usecase) reminderout.ItemSource {
	return &AgendaSource{agenda: agenda}
}

func (s *AgendaSource) Items(ctx context.Context) ([]domain.Item, error) {
	items, err := s.agenda.List(ctx)
	if err != nil {
		return nil, err
	}
	return toItems(items), nil
}

func (s *AgendaSource) Subscribe(fn func([]domain.Item)) func() {
	return s.agenda.Subscribe(func(items []agendadto.ItemOutput) {
		fn(toItems(items))
	})
}

func toItems(items []agendadto.ItemOutput) []domain.Item {
	out := make([]domain.Item, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Item{
			ID:           it.ID,
			Title:        it.Title,
			Description:  it.Description,
			StartTime:    it.StartTime,
			Reminder:     it.Reminder,
			ReminderTime: it.ReminderTime,
			IsCompleted:  it.IsCompleted,
		})
	}
	return out
}
