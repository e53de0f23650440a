package out

import (
	"context"

	"estudozen/internal/modules/agenda/domain"
	agendaout "estudozen/internal/modules/agenda/port/out"
	"estudozen/internal/platform/kv"
)

type KVItemStore struct {
	kv *kv.Store
}

func NewKVItemStore(store *kv.Store) agendaout.ItemStore {
	return &KVItemStore{kv: store}
}

func (s *KVItemStore) Load(ctx context.Context) ([]domain.Item, error) {
	items := []domain.Item{}
	if _, err := s.kv.Get(ctx, kv.KeyAgendaItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *KVItemStore) Update(ctx context.Context, fn func([]domain.Item) ([]domain.Item, error)) ([]domain.Item, error) {
	current := []domain.Item{}
	var next []domain.Item
	err := s.kv.Update(ctx, kv.KeyAgendaItems, &current, func(bool) (any, error) {
		var err error
		next, err = fn(current)
		return next, err
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}
