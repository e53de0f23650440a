package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	agendaout "estudozen/internal/modules/agenda/adapter/out"
	"estudozen/internal/modules/agenda/dto"
	"estudozen/internal/modules/agenda/service"
	"estudozen/internal/modules/agenda/usecase"
	"estudozen/internal/platform/clock"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/kv"
)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("item-%d", s.n)
}

func newInteractor(t *testing.T) (*clock.Fake, *kv.Store, *usecase.Interactor) {
	t.Helper()
	store, err := kv.Open(t.TempDir())
	require.NoError(t, err)
	clk := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	svc := service.NewAgendaService(clk, &seqID{}, agendaout.NewKVItemStore(store), nil)
	return clk, store, usecase.NewInteractor(svc).(*usecase.Interactor)
}

func TestCreateListAndPublish(t *testing.T) {
	t.Parallel()
	clk, _, uc := newInteractor(t)
	ctx := context.Background()

	var published [][]dto.ItemOutput
	uc.Subscribe(func(items []dto.ItemOutput) { published = append(published, items) })

	later, err := uc.Create(ctx, dto.CreateItemInput{Title: "Physics", Type: "Study", StartTime: clk.Now().Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, "study", later.Type)
	_, err = uc.Create(ctx, dto.CreateItemInput{
		Title:        "Chemistry",
		StartTime:    clk.Now().Add(time.Hour),
		Reminder:     true,
		ReminderTime: clk.Now().Add(50 * time.Minute),
	})
	require.NoError(t, err)

	items, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Chemistry", items[0].Title)
	require.Len(t, published, 2)
	assert.Len(t, published[1], 2)
}

func TestValidationAndNotFound(t *testing.T) {
	t.Parallel()
	clk, _, uc := newInteractor(t)
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateItemInput{Title: " ", StartTime: clk.Now()})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateItemInput{Title: "Quiz", StartTime: clk.Now(), Reminder: true})
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	require.ErrorIs(t, uc.Delete(ctx, "missing"), apperrors.ErrNotFound)
	_, err = uc.Complete(ctx, "missing", true)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateCompleteDelete(t *testing.T) {
	t.Parallel()
	clk, _, uc := newInteractor(t)
	ctx := context.Background()
	item, err := uc.Create(ctx, dto.CreateItemInput{Title: "Essay", StartTime: clk.Now().Add(time.Hour)})
	require.NoError(t, err)

	on := true
	at := clk.Now().Add(30 * time.Minute)
	updated, err := uc.Update(ctx, dto.UpdateItemInput{ID: item.ID, Reminder: &on, ReminderTime: &at})
	require.NoError(t, err)
	assert.True(t, updated.Reminder)
	assert.Equal(t, at, updated.ReminderTime)

	done, err := uc.Complete(ctx, item.ID, true)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted)

	require.NoError(t, uc.Delete(ctx, item.ID))
	_, err = uc.Get(ctx, item.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	t.Parallel()
	clk, store, uc := newInteractor(t)
	ctx := context.Background()

	other := usecase.NewInteractor(service.NewAgendaService(clk, &seqID{n: 100}, agendaout.NewKVItemStore(store), nil))
	_, err := other.Create(ctx, dto.CreateItemInput{Title: "From another shell", StartTime: clk.Now()})
	require.NoError(t, err)

	var seen []dto.ItemOutput
	uc.Subscribe(func(items []dto.ItemOutput) { seen = items })
	require.NoError(t, uc.Reload(ctx))
	require.Len(t, seen, 1)
	assert.Equal(t, "item-101", seen[0].ID)
}
