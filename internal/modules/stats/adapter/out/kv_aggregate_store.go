package out

import (
	"context"

	"estudozen/internal/modules/stats/domain"
	statsout "estudozen/internal/modules/stats/port/out"
	"estudozen/internal/platform/kv"
)

type KVAggregateStore struct {
	kv *kv.Store
}

func NewKVAggregateStore(store *kv.Store) statsout.AggregateStore {
	return &KVAggregateStore{kv: store}
}

func (s *KVAggregateStore) Load(ctx context.Context) (domain.Aggregate, error) {
	agg := domain.Aggregate{Schema: domain.SchemaVersion}
	if _, err := s.kv.Get(ctx, kv.KeyStats, &agg); err != nil {
		return domain.Aggregate{}, err
	}
	return agg, nil
}

func (s *KVAggregateStore) Update(ctx context.Context, fn func(domain.Aggregate) (domain.Aggregate, error)) (domain.Aggregate, error) {
	current := domain.Aggregate{Schema: domain.SchemaVersion}
	var next domain.Aggregate
	err := s.kv.Update(ctx, kv.KeyStats, &current, func(bool) (any, error) {
		var err error
		next, err = fn(current)
		return next, err
	})
	if err != nil {
		return domain.Aggregate{}, err
	}
	return next, nil
}
