package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estudozen/internal/modules/stats/domain"
	"estudozen/internal/modules/stats/service"
	"estudozen/internal/platform/clock"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/metrics"
)

var now = time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC)

type seqID struct{ n int }

func (s *seqID) New() string {
	s.n++
	return fmt.Sprintf("rec-%d", s.n)
}

type memStore struct {
	mu   sync.Mutex
	agg  domain.Aggregate
	fail error
}

func (m *memStore) Load(context.Context) (domain.Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agg, nil
}

func (m *memStore) Update(_ context.Context, fn func(domain.Aggregate) (domain.Aggregate, error)) (domain.Aggregate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return domain.Aggregate{}, m.fail
	}
	next, err := fn(m.agg)
	if err != nil {
		return domain.Aggregate{}, err
	}
	m.agg = next
	return next, nil
}

type memJournal struct {
	written []domain.SessionRecord
	extra   []domain.SessionRecord
}

func (j *memJournal) Write(_ context.Context, r domain.SessionRecord) (string, error) {
	j.written = append(j.written, r)
	return "sessions/" + r.ID + ".md", nil
}

func (j *memJournal) ReadAll(context.Context) ([]domain.SessionRecord, error) {
	return append(append([]domain.SessionRecord(nil), j.written...), j.extra...), nil
}

type memIndex struct {
	records map[string]domain.SessionRecord
}

func (x *memIndex) Upsert(_ context.Context, r domain.SessionRecord) error {
	x.records[r.ID] = r
	return nil
}

func (x *memIndex) Recent(context.Context, int) ([]domain.SessionRecord, error) {
	return nil, errors.New("not used")
}

func (x *memIndex) Reset(context.Context) error {
	x.records = map[string]domain.SessionRecord{}
	return nil
}

type fakeAgenda []domain.AgendaEntry

func (f fakeAgenda) Entries(context.Context) ([]domain.AgendaEntry, error) { return f, nil }

func counterValue(t *testing.T, m *metrics.Metrics, name, label, value string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == label && l.GetValue() == value {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func rec(minutes int, completed bool) domain.SessionRecord {
	return domain.SessionRecord{
		StartTime:       now.Add(-time.Duration(minutes) * time.Minute),
		EndTime:         now,
		DurationMinutes: minutes,
		Completed:       completed,
		Type:            "pomodoro",
	}
}

func newLedger(store *memStore, m *metrics.Metrics) (*service.LedgerService, *clock.Fake, *memJournal) {
	clk := clock.NewFake(now)
	journal := &memJournal{}
	svc := service.NewLedgerService(clk, &seqID{}, store, journal, nil, fakeAgenda{{Type: "study", IsCompleted: true}, {Type: "study"}}, m, nil).InLocation(time.UTC)
	return svc, clk, journal
}

func TestRecordSessionCompletedAdvancesAggregate(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	m := metrics.New()
	svc, _, journal := newLedger(store, m)
	ctx := context.Background()

	out, err := svc.RecordSession(ctx, rec(25, true))
	require.NoError(t, err)
	assert.Equal(t, "rec-1", out.ID)

	agg := svc.Snapshot()
	assert.Equal(t, 1, agg.SessionsCompleted)
	assert.Equal(t, 25, agg.TotalStudyTime)
	assert.Equal(t, 1, agg.StudyStreak)
	assert.Equal(t, agg, store.agg)
	assert.Len(t, journal.written, 1)
	assert.Equal(t, 1.0, counterValue(t, m, "estudozen_ledger_sessions_recorded_total", "completed", "true"))
}

func TestRecordSessionIncompleteKeepsCounters(t *testing.T) {
	t.Parallel()
	svc, _, _ := newLedger(&memStore{}, nil)
	_, err := svc.RecordSession(context.Background(), rec(2, false))
	require.NoError(t, err)
	agg := svc.Snapshot()
	assert.Zero(t, agg.SessionsCompleted)
	assert.Zero(t, agg.TotalStudyTime)
	assert.Zero(t, agg.StudyStreak)
	assert.Len(t, agg.StudySessions, 1)
}

func TestRecordSessionDeduplicatesByID(t *testing.T) {
	t.Parallel()
	svc, _, _ := newLedger(&memStore{}, nil)
	r := rec(25, true)
	r.ID = "sess-1.0"
	_, err := svc.RecordSession(context.Background(), r)
	require.NoError(t, err)
	_, err = svc.RecordSession(context.Background(), r)
	require.NoError(t, err)
	agg := svc.Snapshot()
	assert.Equal(t, 1, agg.SessionsCompleted)
	assert.Len(t, agg.StudySessions, 1)
}

func TestRecordSessionDeduplicatesAgainstStore(t *testing.T) {
	t.Parallel()
	r := rec(25, true)
	r.ID = "sess-1.0"
	store := &memStore{agg: domain.Aggregate{}.Apply(r, now)}
	svc, _, _ := newLedger(store, nil)

	// The in-memory aggregate has not been loaded yet.
	out, err := svc.RecordSession(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, "sess-1.0", out.ID)
	assert.Equal(t, 1, store.agg.SessionsCompleted)
	assert.Equal(t, 1, svc.Snapshot().SessionsCompleted)
}

func TestRecordSessionSameDayStreak(t *testing.T) {
	t.Parallel()
	svc, clk, _ := newLedger(&memStore{}, nil)
	ctx := context.Background()
	_, err := svc.RecordSession(ctx, rec(25, true))
	require.NoError(t, err)
	clk.Advance(2 * time.Hour)
	_, err = svc.RecordSession(ctx, rec(25, true))
	require.NoError(t, err)
	assert.Equal(t, 1, svc.Snapshot().StudyStreak)

	clk.Advance(24 * time.Hour)
	_, err = svc.RecordSession(ctx, rec(25, true))
	require.NoError(t, err)
	assert.Equal(t, 2, svc.Snapshot().StudyStreak)
	assert.Equal(t, 2, svc.CurrentStreak())
}

func TestPersistenceFailureKeepsMemoryAuthoritative(t *testing.T) {
	t.Parallel()
	store := &memStore{fail: errors.New("disk full")}
	m := metrics.New()
	svc, _, _ := newLedger(store, m)

	var seen []int
	unsubscribe := svc.Subscribe(func(a domain.Aggregate) { seen = append(seen, a.TotalStudyTime) })
	defer unsubscribe()

	out, err := svc.RecordSession(context.Background(), rec(25, true))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrPersistence))
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 25, svc.Snapshot().TotalStudyTime)
	assert.Equal(t, []int{0, 25}, seen)
	assert.Equal(t, 1.0, counterValue(t, m, "estudozen_store_persist_errors_total", "key", "stats"))

	// The next successful write carries the in-memory record forward.
	store.fail = nil
	_, err = svc.RecordSession(context.Background(), rec(10, true))
	require.NoError(t, err)
	assert.Equal(t, 35, store.agg.TotalStudyTime)
	assert.Len(t, store.agg.StudySessions, 2)
}

func TestDirtyLedgerKeepsRecordsStoredByOtherProcesses(t *testing.T) {
	t.Parallel()
	store := &memStore{fail: errors.New("disk full")}
	svc, _, _ := newLedger(store, nil)
	ctx := context.Background()

	_, err := svc.RecordSession(ctx, rec(25, true))
	require.Error(t, err)

	// Another process writes while this one cannot.
	other := rec(40, true)
	other.ID = "other-1"
	store.mu.Lock()
	store.agg = domain.Aggregate{}.Apply(other, now)
	store.fail = nil
	store.mu.Unlock()

	// Ignored while dirty; merged on the next successful write.
	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, 25, svc.Snapshot().TotalStudyTime)

	_, err = svc.RecordSession(ctx, rec(10, true))
	require.NoError(t, err)

	ids := make([]string, 0, len(store.agg.StudySessions))
	for _, r := range store.agg.StudySessions {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"other-1", "rec-1", "rec-2"}, ids)
	assert.Equal(t, 75, store.agg.TotalStudyTime)
	assert.Equal(t, 3, store.agg.SessionsCompleted)
	assert.Equal(t, store.agg.TotalStudyTime, svc.Snapshot().TotalStudyTime)

	// A failed reset is replayed over whatever the store holds.
	store.fail = errors.New("disk full")
	require.Error(t, svc.Reset(ctx))
	store.fail = nil
	_, err = svc.RecordSession(ctx, rec(5, true))
	require.NoError(t, err)
	require.Len(t, store.agg.StudySessions, 1)
	assert.Equal(t, 5, store.agg.TotalStudyTime)
}

func TestRejectsInvalidRecord(t *testing.T) {
	t.Parallel()
	svc, _, _ := newLedger(&memStore{}, nil)
	bad := rec(5, true)
	bad.Type = " "
	_, err := svc.RecordSession(context.Background(), bad)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	assert.Empty(t, svc.Snapshot().StudySessions)
}

func TestScheduledStudyStats(t *testing.T) {
	t.Parallel()
	svc, _, _ := newLedger(&memStore{}, nil)
	got, err := svc.ScheduledStudyStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduledStudy{Total: 2, Completed: 1, Ratio: 0.5}, got)
}

func TestResetClearsAggregate(t *testing.T) {
	t.Parallel()
	store := &memStore{}
	svc, _, _ := newLedger(store, nil)
	_, err := svc.RecordSession(context.Background(), rec(25, true))
	require.NoError(t, err)
	require.NoError(t, svc.Reset(context.Background()))
	assert.Zero(t, svc.Snapshot().TotalStudyTime)
	assert.Zero(t, store.agg.TotalStudyTime)
}

func TestReindexMergesJournal(t *testing.T) {
	t.Parallel()
	clk := clock.NewFake(now)
	journal := &memJournal{}
	index := &memIndex{records: map[string]domain.SessionRecord{}}
	svc := service.NewLedgerService(clk, &seqID{}, &memStore{}, journal, index, nil, nil, nil).InLocation(time.UTC)

	_, err := svc.RecordSession(context.Background(), rec(25, true))
	require.NoError(t, err)
	lost := rec(30, true)
	lost.ID = "lost-1"
	journal.extra = append(journal.extra, lost)

	n, err := svc.Reindex(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, index.records, "lost-1")
	assert.Contains(t, index.records, "rec-1")
}

func TestHistoryFallsBackToAggregate(t *testing.T) {
	t.Parallel()
	svc, clk, _ := newLedger(&memStore{}, nil)
	_, err := svc.RecordSession(context.Background(), rec(25, true))
	require.NoError(t, err)
	clk.Advance(time.Hour)
	later := rec(10, false)
	later.StartTime = now.Add(30 * time.Minute)
	later.EndTime = now.Add(40 * time.Minute)
	_, err = svc.RecordSession(context.Background(), later)
	require.NoError(t, err)

	history, err := svc.History(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "rec-2", history[0].ID)
}
