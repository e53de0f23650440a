package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/go-hclog"

	"estudozen/internal/modules/agenda/domain"
	agendaout "estudozen/internal/modules/agenda/port/out"
	"estudozen/internal/platform/broadcast"
	"estudozen/internal/platform/clock"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/id"
	"estudozen/internal/platform/logging"
)

type AgendaService struct {
	clock  clock.Clock
	idGen  id.Generator
	store  agendaout.ItemStore
	logger hclog.Logger
	hub    broadcast.Hub[[]domain.Item]
}

func NewAgendaService(clock clock.Clock, idGen id.Generator, store agendaout.ItemStore, logger hclog.Logger) *AgendaService {
	return &AgendaService{clock: clock, idGen: idGen, store: store, logger: logging.OrNull(logger).Named("agenda")}
}

func (s *AgendaService) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	now := s.clock.Now()
	item.ID = s.idGen.New()
	item.Title = strings.TrimSpace(item.Title)
	item.CreatedAt = now
	item.UpdatedAt = now
	if err := item.Validate(); err != nil {
		return domain.Item{}, err
	}
	items, err := s.store.Update(ctx, func(items []domain.Item) ([]domain.Item, error) {
		return append(items, item), nil
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("create item: %w", err)
	}
	s.logger.Debug("item created", "id", item.ID, "reminder", item.Reminder)
	s.publish(items)
	return item, nil
}

// Update applies fn to the stored item and re-validates it.
func (s *AgendaService) Update(ctx context.Context, itemID string, fn func(*domain.Item)) (domain.Item, error) {
	var updated domain.Item
	items, err := s.store.Update(ctx, func(items []domain.Item) ([]domain.Item, error) {
		idx := domain.IndexOf(items, itemID)
		if idx < 0 {
			return nil, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, itemID)
		}
		next := items[idx]
		fn(&next)
		next.ID = itemID
		next.UpdatedAt = s.clock.Now()
		if err := next.Validate(); err != nil {
			return nil, err
		}
		items[idx] = next
		updated = next
		return items, nil
	})
	if err != nil {
		return domain.Item{}, err
	}
	s.publish(items)
	return updated, nil
}

func (s *AgendaService) Delete(ctx context.Context, itemID string) error {
	items, err := s.store.Update(ctx, func(items []domain.Item) ([]domain.Item, error) {
		idx := domain.IndexOf(items, itemID)
		if idx < 0 {
			return nil, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, itemID)
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.logger.Debug("item deleted", "id", itemID)
	s.publish(items)
	return nil
}

func (s *AgendaService) Get(ctx context.Context, itemID string) (domain.Item, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return domain.Item{}, fmt.Errorf("load items: %w", err)
	}
	idx := domain.IndexOf(items, itemID)
	if idx < 0 {
		return domain.Item{}, fmt.Errorf("%w: item %s", apperrors.ErrNotFound, itemID)
	}
	return items[idx], nil
}

// List returns items ordered by start time.
func (s *AgendaService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	sortItems(items)
	return items, nil
}

// Reload republishes the stored collection, e.g. after another process
// changed it.
func (s *AgendaService) Reload(ctx context.Context) error {
	items, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("reload items: %w", err)
	}
	s.publish(items)
	return nil
}

func (s *AgendaService) Subscribe(fn func([]domain.Item)) func() {
	return s.hub.Subscribe(fn)
}

func (s *AgendaService) publish(items []domain.Item) {
	snapshot := append([]domain.Item(nil), items...)
	sortItems(snapshot)
	s.hub.Publish(snapshot)
}

func sortItems(items []domain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime.Before(items[j].StartTime)
	})
}
