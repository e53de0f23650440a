package out

import (
	"context"

	"estudozen/internal/modules/timer/domain"
	"estudozen/internal/platform/kv"
)

// KVSnapshotStore keeps the live session and the default count-down length
// under separate keys.
type KVSnapshotStore struct {
	kv *kv.Store
}

func NewKVSnapshotStore(store *kv.Store) *KVSnapshotStore {
	return &KVSnapshotStore{kv: store}
}

func (s *KVSnapshotStore) Load(ctx context.Context) (domain.Session, bool, error) {
	session := domain.Session{}
	found, err := s.kv.Get(ctx, kv.KeyTimerSnapshot, &session)
	if err != nil {
		return domain.Session{}, false, err
	}
	return session, found, nil
}

func (s *KVSnapshotStore) Save(ctx context.Context, session domain.Session) error {
	return s.kv.Set(ctx, kv.KeyTimerSnapshot, session)
}

func (s *KVSnapshotStore) LoadDefault(ctx context.Context) (int, bool, error) {
	var seconds int
	found, err := s.kv.Get(ctx, kv.KeyTimerDefault, &seconds)
	if err != nil {
		return 0, false, err
	}
	return seconds, found, nil
}

func (s *KVSnapshotStore) SaveDefault(ctx context.Context, seconds int) error {
	return s.kv.Set(ctx, kv.KeyTimerDefault, seconds)
}
