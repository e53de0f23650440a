package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"estudozen/internal/modules/reminder/domain"
	reminderout "estudozen/internal/modules/reminder/port/out"
	"estudozen/internal/platform/clock"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/logging"
	"estudozen/internal/platform/metrics"
)

const DefaultSweepInterval = time.Minute

type pendingTimer struct {
	item       domain.Item
	fireAt     time.Time
	handle     clock.Handle
	generation uint64
}

// SchedulerService keeps one pending callback per eligible item. Every
// change rebuilds the whole set; callbacks from an older build are ignored
// even if their cancel raced with firing.
type SchedulerService struct {
	sched   clock.Scheduler
	source  reminderout.ItemSource
	gate    reminderout.Gate
	channel reminderout.AlertChannel
	metrics *metrics.Metrics
	logger  hclog.Logger
	sweep   time.Duration

	mu          sync.Mutex
	timers      map[string]*pendingTimer
	generation  uint64
	sweepHandle clock.Handle
	unsubscribe func()
}

func NewSchedulerService(
	sched clock.Scheduler,
	source reminderout.ItemSource,
	gate reminderout.Gate,
	channel reminderout.AlertChannel,
	m *metrics.Metrics,
	logger hclog.Logger,
	sweep time.Duration,
) *SchedulerService {
	if sweep <= 0 {
		sweep = DefaultSweepInterval
	}
	return &SchedulerService{
		sched:   sched,
		source:  source,
		gate:    gate,
		channel: channel,
		metrics: m,
		logger:  logging.OrNull(logger).Named("reminder"),
		sweep:   sweep,
		timers:  map[string]*pendingTimer{},
	}
}

// Start schedules the current items, follows the change stream and starts
// the periodic safety sweep. Calling Start twice restarts it.
func (s *SchedulerService) Start(ctx context.Context) error {
	s.Stop()
	if err := s.Recompute(ctx); err != nil {
		return err
	}
	unsubscribe := s.source.Subscribe(s.rebuild)
	sweep := s.sched.Every(s.sweep, func() {
		if err := s.Recompute(context.Background()); err != nil {
			s.logger.Warn("reminder sweep failed", "error", err)
		}
	})
	s.mu.Lock()
	s.unsubscribe = unsubscribe
	s.sweepHandle = sweep
	s.mu.Unlock()
	s.logger.Debug("reminder scheduler started", "sweep", s.sweep)
	return nil
}

// Stop cancels every pending reminder and the sweep.
func (s *SchedulerService) Stop() {
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	if s.sweepHandle != nil {
		s.sweepHandle.Cancel()
		s.sweepHandle = nil
	}
	s.cancelAllLocked()
	s.metrics.RemindersPending(0)
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Recompute reloads the items and rebuilds every pending reminder.
func (s *SchedulerService) Recompute(ctx context.Context) error {
	items, err := s.source.Items(ctx)
	if err != nil {
		return fmt.Errorf("load reminder items: %w", err)
	}
	s.rebuild(items)
	return nil
}

func (s *SchedulerService) rebuild(items []domain.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
	s.generation++
	now := s.sched.Now()
	for _, item := range items {
		if !domain.Eligible(item, now) {
			continue
		}
		id, generation := item.ID, s.generation
		s.timers[id] = &pendingTimer{
			item:       item,
			fireAt:     item.ReminderTime,
			generation: generation,
			handle: s.sched.After(item.ReminderTime.Sub(now), func() {
				s.fire(id, generation)
			}),
		}
	}
	s.metrics.RemindersPending(len(s.timers))
	s.logger.Trace("reminders rebuilt", "pending", len(s.timers), "generation", s.generation)
}

func (s *SchedulerService) cancelAllLocked() {
	for id, t := range s.timers {
		t.handle.Cancel()
		delete(s.timers, id)
	}
}

// fire delivers one reminder. A suppressed attempt is dropped, not retried.
func (s *SchedulerService) fire(itemID string, generation uint64) {
	s.mu.Lock()
	t, ok := s.timers[itemID]
	if !ok || t.generation != generation {
		s.mu.Unlock()
		return
	}
	delete(s.timers, itemID)
	s.metrics.RemindersPending(len(s.timers))
	s.mu.Unlock()

	ctx := context.Background()
	outcome := domain.Decide(s.gate.Status(ctx))
	switch outcome {
	case domain.OutcomeSuppressed:
		s.logger.Debug("reminder suppressed by do-not-disturb", "item", itemID)
	case domain.OutcomeDenied:
		err := fmt.Errorf("%w: reminder for %s not delivered", apperrors.ErrCapabilityDenied, itemID)
		s.logger.Warn("alert permission not granted", "error", err)
	default:
		title, body := domain.AlertFor(t.item)
		if err := s.channel.Deliver(ctx, title, body); err != nil {
			outcome = domain.OutcomeFailed
			s.logger.Error("reminder delivery failed", "item", itemID, "error", err)
		} else {
			s.logger.Info("reminder delivered", "item", itemID, "title", title)
		}
	}
	s.metrics.ReminderFired(string(outcome))
}

// Pending lists scheduled reminders by fire time.
func (s *SchedulerService) Pending() []domain.Pending {
	s.mu.Lock()
	out := make([]domain.Pending, 0, len(s.timers))
	for id, t := range s.timers {
		out = append(out, domain.Pending{ItemID: id, Title: t.item.Title, FireAt: t.fireAt})
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].FireAt.Before(out[j].FireAt)
		}
		return out[i].ItemID < out[j].ItemID
	})
	return out
}
