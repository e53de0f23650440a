package out

import (
	"context"

	"estudozen/internal/modules/focus/domain"
	focusout "estudozen/internal/modules/focus/port/out"
	"estudozen/internal/platform/kv"
)

type KVStateStore struct {
	kv *kv.Store
}

func NewKVStateStore(store *kv.Store) focusout.StateStore {
	return &KVStateStore{kv: store}
}

func (s *KVStateStore) Load(ctx context.Context) (domain.State, bool, error) {
	state := domain.State{}
	found, err := s.kv.Get(ctx, kv.KeyFocusState, &state)
	if err != nil {
		return domain.State{}, false, err
	}
	return state, found, nil
}

func (s *KVStateStore) Save(ctx context.Context, state domain.State) error {
	return s.kv.Set(ctx, kv.KeyFocusState, state)
}
