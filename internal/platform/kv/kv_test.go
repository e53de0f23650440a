package kv_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estudozen/internal/platform/kv"
)

type doc struct {
	Count int      `json:"count"`
	Tags  []string `json:"tags"`
}

func TestGetSetRoundTrip(t *testing.T) {
	t.Parallel()
	store, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var missing doc
	found, err := store.Get(ctx, "absent", &missing)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "doc", doc{Count: 2, Tags: []string{"a"}}))
	var got doc
	found, err = store.Get(ctx, "doc", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, doc{Count: 2, Tags: []string{"a"}}, got)

	require.NoError(t, store.Delete(ctx, "doc"))
	found, err = store.Get(ctx, "doc", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateSerializesReadModifyWrite(t *testing.T) {
	t.Parallel()
	store, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var current doc
			err := store.Update(ctx, "counter", &current, func(bool) (any, error) {
				current.Count++
				return current, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	var got doc
	_, err = store.Get(ctx, "counter", &got)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Count)
}

func TestUpdateAbortsOnError(t *testing.T) {
	t.Parallel()
	store, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "doc", doc{Count: 1}))

	boom := errors.New("boom")
	var current doc
	err = store.Update(ctx, "doc", &current, func(found bool) (any, error) {
		assert.True(t, found)
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	var got doc
	_, err = store.Get(ctx, "doc", &got)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Count)
}

func TestWatchReportsChangedKeys(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	watcherStore, err := kv.Open(dir)
	require.NoError(t, err)
	writerStore, err := kv.Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := watcherStore.Watch(ctx)
	require.NoError(t, err)

	require.NoError(t, writerStore.Set(context.Background(), kv.KeyAgendaItems, []doc{{Count: 1}}))

	select {
	case key := <-events:
		assert.Equal(t, kv.KeyAgendaItems, key)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change event")
	}
}
