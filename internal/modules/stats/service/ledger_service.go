package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"estudozen/internal/modules/stats/domain"
	statsout "estudozen/internal/modules/stats/port/out"
	"estudozen/internal/platform/broadcast"
	"estudozen/internal/platform/clock"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/id"
	"estudozen/internal/platform/logging"
	"estudozen/internal/platform/metrics"
)

var errDuplicate = errors.New("record already stored")

// LedgerService turns finished sessions into the persisted aggregate. The
// in-memory aggregate stays authoritative when the store rejects a write;
// the next successful write carries it forward.
type LedgerService struct {
	clock   clock.Clock
	idGen   id.Generator
	store   statsout.AggregateStore
	journal statsout.Journal
	index   statsout.SessionIndex
	agenda  statsout.AgendaReader
	metrics *metrics.Metrics
	logger  hclog.Logger
	loc     *time.Location

	mu  sync.Mutex
	agg domain.Aggregate
	hub broadcast.Hub[domain.Aggregate]

	// dirty is set while the store lags behind agg. pending holds the
	// records applied only in memory since the last successful write, and
	// pendingReset marks a reset the store never saw.
	dirty        bool
	pending      []pendingRecord
	pendingReset bool
}

type pendingRecord struct {
	record domain.SessionRecord
	at     time.Time
}

func NewLedgerService(
	clock clock.Clock,
	idGen id.Generator,
	store statsout.AggregateStore,
	journal statsout.Journal,
	index statsout.SessionIndex,
	agenda statsout.AgendaReader,
	m *metrics.Metrics,
	logger hclog.Logger,
) *LedgerService {
	return &LedgerService{
		clock:   clock,
		idGen:   idGen,
		store:   store,
		journal: journal,
		index:   index,
		agenda:  agenda,
		metrics: m,
		logger:  logging.OrNull(logger).Named("stats"),
		loc:     time.Local,
		agg:     domain.Aggregate{Schema: domain.SchemaVersion},
	}
}

// InLocation sets the zone that decides calendar days for streaks and
// buckets.
func (s *LedgerService) InLocation(loc *time.Location) *LedgerService {
	if loc != nil {
		s.loc = loc
	}
	return s
}

func (s *LedgerService) now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Load replaces the in-memory aggregate with the stored one, unless memory
// holds records the store has not seen yet.
func (s *LedgerService) Load(ctx context.Context) error {
	stored, err := s.store.Load(ctx)
	if err != nil {
		s.metrics.PersistError("stats")
		return fmt.Errorf("%w: load stats: %v", apperrors.ErrPersistence, err)
	}
	s.mu.Lock()
	if s.dirty {
		s.mu.Unlock()
		s.logger.Debug("stored stats ignored while unsaved records are pending")
		return nil
	}
	s.agg = stored
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.hub.Publish(snapshot)
	return nil
}

// RecordSession stores r once. A repeated id returns the stored record
// unchanged. On a store failure the record is still applied in memory and
// the returned error wraps ErrPersistence.
func (s *LedgerService) RecordSession(ctx context.Context, r domain.SessionRecord) (domain.SessionRecord, error) {
	if r.ID == "" {
		r.ID = s.idGen.New()
	}
	r.Type = strings.TrimSpace(r.Type)
	if err := r.Validate(); err != nil {
		return domain.SessionRecord{}, err
	}

	s.mu.Lock()
	if existing, ok := s.agg.Find(r.ID); ok {
		s.mu.Unlock()
		return existing, nil
	}
	now := s.now()
	existing := domain.SessionRecord{}
	stored, err := s.store.Update(ctx, func(current domain.Aggregate) (domain.Aggregate, error) {
		if s.dirty {
			current = s.mergePendingLocked(current)
		}
		if found, ok := current.Find(r.ID); ok {
			existing = found
			return current, errDuplicate
		}
		return current.Apply(r, now), nil
	})
	var persistErr error
	switch {
	case errors.Is(err, errDuplicate):
		s.mu.Unlock()
		// Another process recorded it first; pick up its aggregate.
		if loadErr := s.Load(ctx); loadErr != nil {
			s.logger.Warn("stats reload failed", "error", loadErr)
		}
		return existing, nil
	case err != nil:
		s.agg = s.agg.Apply(r, now)
		s.dirty = true
		s.pending = append(s.pending, pendingRecord{record: r, at: now})
		persistErr = fmt.Errorf("%w: save stats: %v", apperrors.ErrPersistence, err)
	default:
		s.agg = stored
		s.clearPendingLocked()
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if persistErr != nil {
		s.metrics.PersistError("stats")
		s.logger.Warn("stats not persisted; in-memory aggregate is authoritative", "record_id", r.ID, "error", err)
	}
	s.metrics.SessionRecorded(r.Completed, r.DurationMinutes)
	s.logger.Debug("session recorded", "record_id", r.ID, "minutes", r.DurationMinutes, "completed", r.Completed, "streak", snapshot.StudyStreak)
	s.project(ctx, r)
	s.hub.Publish(snapshot)
	return r, persistErr
}

// project writes the secondary copies of r. Their failures never fail the
// recording.
func (s *LedgerService) project(ctx context.Context, r domain.SessionRecord) {
	if s.journal != nil {
		if path, err := s.journal.Write(ctx, r); err != nil {
			s.logger.Warn("journal note not written", "record_id", r.ID, "error", err)
		} else {
			s.logger.Trace("journal note written", "path", path)
		}
	}
	if s.index != nil {
		if err := s.index.Upsert(ctx, r); err != nil {
			s.logger.Warn("session index not updated", "record_id", r.ID, "error", err)
		}
	}
}

func (s *LedgerService) Snapshot() domain.Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// mergePendingLocked lays the in-memory-only records over the stored
// aggregate. Records another process stored meanwhile are kept; ids already
// present on disk are not applied twice.
func (s *LedgerService) mergePendingLocked(stored domain.Aggregate) domain.Aggregate {
	if s.pendingReset {
		stored = domain.Aggregate{Schema: domain.SchemaVersion}
	}
	for _, p := range s.pending {
		if _, ok := stored.Find(p.record.ID); ok {
			continue
		}
		stored = stored.Apply(p.record, p.at)
	}
	return stored
}

func (s *LedgerService) clearPendingLocked() {
	s.dirty = false
	s.pending = nil
	s.pendingReset = false
}

func (s *LedgerService) snapshotLocked() domain.Aggregate {
	snapshot := s.agg
	snapshot.StudySessions = append([]domain.SessionRecord(nil), s.agg.StudySessions...)
	return snapshot
}

// CurrentStreak reads zero once a day has passed without a completion.
func (s *LedgerService) CurrentStreak() int {
	return s.Snapshot().CurrentStreak(s.now())
}

func (s *LedgerService) WeeklyStats() []domain.Bucket {
	return domain.Weekly(s.Snapshot().StudySessions, s.now())
}

func (s *LedgerService) MonthlyStats() []domain.Bucket {
	return domain.Monthly(s.Snapshot().StudySessions, s.now())
}

func (s *LedgerService) TypeDistribution() []domain.TypeShare {
	return domain.TypeDistribution(s.Snapshot().StudySessions)
}

func (s *LedgerService) ScheduledStudyStats(ctx context.Context) (domain.ScheduledStudy, error) {
	if s.agenda == nil {
		return domain.ScheduledStudy{}, nil
	}
	entries, err := s.agenda.Entries(ctx)
	if err != nil {
		return domain.ScheduledStudy{}, fmt.Errorf("read agenda: %w", err)
	}
	return domain.Scheduled(entries), nil
}

// History returns the most recent records, newest first.
func (s *LedgerService) History(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if s.index != nil {
		records, err := s.index.Recent(ctx, limit)
		if err == nil {
			return records, nil
		}
		s.logger.Warn("session index unavailable; reading aggregate", "error", err)
	}
	records := s.Snapshot().StudySessions
	sortNewestFirst(records)
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Reindex rebuilds the session index from the aggregate and the journal.
// Journal notes cover records whose aggregate write was lost.
func (s *LedgerService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	byID := map[string]domain.SessionRecord{}
	if s.journal != nil {
		notes, err := s.journal.ReadAll(ctx)
		if err != nil {
			s.logger.Warn("journal unreadable; indexing aggregate only", "error", err)
		}
		for _, r := range notes {
			byID[r.ID] = r
		}
	}
	for _, r := range s.Snapshot().StudySessions {
		byID[r.ID] = r
	}
	if err := s.index.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset session index: %w", err)
	}
	for _, r := range byID {
		if err := s.index.Upsert(ctx, r); err != nil {
			return 0, fmt.Errorf("index record %s: %w", r.ID, err)
		}
	}
	s.logger.Info("session index rebuilt", "records", len(byID))
	return len(byID), nil
}

// Reset clears the aggregate. It is the only operation that lowers
// TotalStudyTime. Journal notes are kept.
func (s *LedgerService) Reset(ctx context.Context) error {
	s.mu.Lock()
	_, err := s.store.Update(ctx, func(domain.Aggregate) (domain.Aggregate, error) {
		return domain.Aggregate{Schema: domain.SchemaVersion}, nil
	})
	s.agg = domain.Aggregate{Schema: domain.SchemaVersion}
	s.clearPendingLocked()
	if err != nil {
		s.dirty = true
		s.pendingReset = true
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if s.index != nil {
		if idxErr := s.index.Reset(ctx); idxErr != nil {
			s.logger.Warn("session index not cleared", "error", idxErr)
		}
	}
	s.hub.Publish(snapshot)
	if err != nil {
		s.metrics.PersistError("stats")
		return fmt.Errorf("%w: reset stats: %v", apperrors.ErrPersistence, err)
	}
	s.logger.Info("stats reset")
	return nil
}

// Subscribe delivers the current aggregate immediately and then every change.
func (s *LedgerService) Subscribe(fn func(domain.Aggregate)) func() {
	unsubscribe := s.hub.Subscribe(fn)
	fn(s.Snapshot())
	return unsubscribe
}

func sortNewestFirst(records []domain.SessionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartTime.After(records[j].StartTime)
	})
}
