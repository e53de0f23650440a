package usecase

import (
	"context"
	"fmt"
	"strings"

	"estudozen/internal/modules/agenda/domain"
	"estudozen/internal/modules/agenda/dto"
	agendain "estudozen/internal/modules/agenda/port/in"
	"estudozen/internal/modules/agenda/service"
	apperrors "estudozen/internal/platform/errors"
)

type Interactor struct {
	svc *service.AgendaService
}

func NewInteractor(svc *service.AgendaService) agendain.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Create(ctx context.Context, input dto.CreateItemInput) (dto.ItemOutput, error) {
	item, err := i.svc.Create(ctx, domain.Item{
		Title:        input.Title,
		Description:  input.Description,
		Type:         strings.ToLower(strings.TrimSpace(input.Type)),
		StartTime:    input.StartTime,
		Reminder:     input.Reminder,
		ReminderTime: input.ReminderTime,
	})
	if err != nil {
		return dto.ItemOutput{}, err
	}
	return toOutput(item), nil
}

func (i *Interactor) Update(ctx context.Context, input dto.UpdateItemInput) (dto.ItemOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return dto.ItemOutput{}, fmt.Errorf("%w: item id is required", apperrors.ErrInvalidInput)
	}
	item, err := i.svc.Update(ctx, input.ID, func(item *domain.Item) {
		if input.Title != nil {
			item.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			item.Description = *input.Description
		}
		if input.Type != nil {
			item.Type = strings.ToLower(strings.TrimSpace(*input.Type))
		}
		if input.StartTime != nil {
			item.StartTime = *input.StartTime
		}
		if input.Reminder != nil {
			item.Reminder = *input.Reminder
		}
		if input.ReminderTime != nil {
			item.ReminderTime = *input.ReminderTime
		}
	})
	if err != nil {
		return dto.ItemOutput{}, err
	}
	return toOutput(item), nil
}

func (i *Interactor) Delete(ctx context.Context, id string) error {
	return i.svc.Delete(ctx, id)
}

func (i *Interactor) Complete(ctx context.Context, id string, completed bool) (dto.ItemOutput, error) {
	item, err := i.svc.Update(ctx, id, func(item *domain.Item) { item.IsCompleted = completed })
	if err != nil {
		return dto.ItemOutput{}, err
	}
	return toOutput(item), nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.ItemOutput, error) {
	item, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.ItemOutput{}, err
	}
	return toOutput(item), nil
}

func (i *Interactor) List(ctx context.Context) ([]dto.ItemOutput, error) {
	items, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	return toOutputs(items), nil
}

func (i *Interactor) Reload(ctx context.Context) error {
	return i.svc.Reload(ctx)
}

func (i *Interactor) Subscribe(fn func([]dto.ItemOutput)) func() {
	return i.svc.Subscribe(func(items []domain.Item) { fn(toOutputs(items)) })
}

func toOutputs(items []domain.Item) []dto.ItemOutput {
	out := make([]dto.ItemOutput, 0, len(items))
	for _, item := range items {
		out = append(out, toOutput(item))
	}
	return out
}

func toOutput(item domain.Item) dto.ItemOutput {
	return dto.ItemOutput{
		ID:           item.ID,
		Title:        item.Title,
		Description:  item.Description,
		Type:         item.Type,
		StartTime:    item.StartTime,
		Reminder:     item.Reminder,
		ReminderTime: item.ReminderTime,
		IsCompleted:  item.IsCompleted,
	}
}
