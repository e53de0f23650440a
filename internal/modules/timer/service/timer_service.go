package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"estudozen/internal/modules/timer/domain"
	timerout "estudozen/internal/modules/timer/port/out"
	"estudozen/internal/platform/broadcast"
	"estudozen/internal/platform/clock"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/id"
	"estudozen/internal/platform/logging"
)

const TickInterval = time.Second

// TimerService owns the single live session of the process. Operations are
// serialized; readers see a snapshot under a separate lock so ticks never
// block the UI.
type TimerService struct {
	sched     clock.Scheduler
	idGen     id.Generator
	snapshots timerout.SnapshotStore
	defaults  timerout.DefaultDurationStore
	sink      timerout.SessionSink
	focus     timerout.FocusGate
	logger    hclog.Logger

	fallbackSeconds int

	opMu    sync.Mutex
	mu      sync.RWMutex
	session domain.Session
	ticker  clock.Handle
	hub     broadcast.Hub[domain.Session]
}

func NewTimerService(
	sched clock.Scheduler,
	idGen id.Generator,
	snapshots timerout.SnapshotStore,
	defaults timerout.DefaultDurationStore,
	sink timerout.SessionSink,
	focus timerout.FocusGate,
	logger hclog.Logger,
	defaultSeconds int,
) *TimerService {
	if defaultSeconds <= 0 {
		defaultSeconds = domain.DefaultCountDownSeconds
	}
	return &TimerService{
		sched:           sched,
		idGen:           idGen,
		snapshots:       snapshots,
		defaults:        defaults,
		sink:            sink,
		focus:           focus,
		logger:          logging.OrNull(logger).Named("timer"),
		fallbackSeconds: defaultSeconds,
		session:         domain.NewSession(domain.ModeCountDown, defaultSeconds),
	}
}

// Restore loads the persisted session and reconciles it against the wall
// clock. A count-down that ran out while the process was gone completes and
// records here. It is also how a long-running process picks up a session
// changed by another invocation.
func (s *TimerService) Restore(ctx context.Context) (domain.Session, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	seconds := s.fallbackSeconds
	if s.defaults != nil {
		stored, found, err := s.defaults.LoadDefault(ctx)
		switch {
		case err != nil:
			s.logger.Warn("default duration unreadable; using configured value", "error", err)
		case found && stored > 0:
			seconds = stored
		}
	}
	restored := domain.NewSession(domain.ModeCountDown, seconds)
	if s.snapshots != nil {
		stored, found, err := s.snapshots.Load(ctx)
		if err != nil {
			return s.current(), fmt.Errorf("%w: load timer snapshot: %v", apperrors.ErrPersistence, err)
		}
		if found && stored.InitialDuration > 0 {
			restored = stored
		}
	}
	s.mu.Lock()
	s.session = restored
	s.mu.Unlock()

	next, err := s.apply(ctx, domain.Event{Kind: domain.EventTick})
	if err != nil {
		return next, err
	}
	if next.IsRunning() {
		s.startTicker()
	} else {
		s.stopTicker()
	}
	return next, nil
}

func (s *TimerService) Start(ctx context.Context, sessionType string) (domain.Session, error) {
	return s.dispatch(ctx, domain.Event{Kind: domain.EventStart, Type: sessionType})
}

func (s *TimerService) Pause(ctx context.Context) (domain.Session, error) {
	return s.dispatch(ctx, domain.Event{Kind: domain.EventPause})
}

func (s *TimerService) Reset(ctx context.Context) (domain.Session, error) {
	return s.dispatch(ctx, domain.Event{Kind: domain.EventReset})
}

func (s *TimerService) SetDuration(ctx context.Context, seconds int) (domain.Session, error) {
	return s.dispatch(ctx, domain.Event{Kind: domain.EventSetDuration, Seconds: seconds})
}

func (s *TimerService) SetMode(ctx context.Context, mode domain.Mode) (domain.Session, error) {
	return s.dispatch(ctx, domain.Event{Kind: domain.EventSetMode, Mode: mode})
}

func (s *TimerService) Annotate(ctx context.Context, activity, audio, sessionType string) (domain.Session, error) {
	return s.dispatch(ctx, domain.Event{Kind: domain.EventAnnotate, Activity: activity, AudioUsed: audio, Type: sessionType})
}

func (s *TimerService) Tick(ctx context.Context) {
	if _, err := s.dispatch(ctx, domain.Event{Kind: domain.EventTick}); err != nil {
		s.logger.Error("tick failed", "error", err)
	}
}

// Snapshot returns the session with display fields computed for now.
func (s *TimerService) Snapshot() domain.Session {
	return s.current().At(s.sched.Now())
}

// Subscribe delivers the current snapshot immediately and then every change,
// including each tick while running.
func (s *TimerService) Subscribe(fn func(domain.Session)) func() {
	unsubscribe := s.hub.Subscribe(fn)
	fn(s.Snapshot())
	return unsubscribe
}

// Close stops ticking and saves the snapshot. A running session keeps
// accruing wall-clock time until the next Restore.
func (s *TimerService) Close(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.stopTicker()
	return s.save(ctx, s.current())
}

func (s *TimerService) dispatch(ctx context.Context, ev domain.Event) (domain.Session, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.apply(ctx, ev)
}

// apply runs one transition and performs its effects. Finished runs reach the
// sink before the cleared session is published.
func (s *TimerService) apply(ctx context.Context, ev domain.Event) (domain.Session, error) {
	current := s.current()
	if ev.Kind == domain.EventStart && !current.Active() {
		ev.SessionID = s.idGen.New()
	}
	next, effects, err := domain.Transition(current, ev, s.sched.Now())
	if err != nil {
		return current, err
	}
	for _, effect := range effects {
		switch effect.Kind {
		case domain.EffectStartTicker:
			s.startTicker()
			s.notifyFocus(ctx, true)
		case domain.EffectStopTicker:
			s.stopTicker()
			s.notifyFocus(ctx, false)
		case domain.EffectFinished:
			s.record(ctx, effect.Finished)
		case domain.EffectPersistDefault:
			if s.defaults != nil {
				if err := s.defaults.SaveDefault(ctx, effect.Seconds); err != nil {
					s.logger.Warn("default duration not persisted", "seconds", effect.Seconds, "error", err)
				}
			}
		}
	}

	s.mu.Lock()
	s.session = next
	s.mu.Unlock()

	if ev.Kind != domain.EventTick || len(effects) > 0 {
		if err := s.save(ctx, next); err != nil {
			s.logger.Warn("timer snapshot not persisted", "error", err)
		}
		s.logger.Debug("timer transition", "event", ev.Kind, "state", next.State, "session_id", next.SessionID)
	}
	s.hub.Publish(next)
	return next, nil
}

func (s *TimerService) record(ctx context.Context, finished domain.Finished) {
	if s.sink == nil {
		return
	}
	err := s.sink.Record(ctx, finished)
	switch {
	case err == nil:
		s.logger.Info("session recorded", "session_id", finished.SessionID, "minutes", finished.DurationMinutes(), "completed", finished.Completed)
	case errors.Is(err, apperrors.ErrPersistence):
		s.logger.Warn("session recorded in memory only", "session_id", finished.SessionID, "error", err)
	default:
		s.logger.Error("session not recorded", "session_id", finished.SessionID, "error", err)
	}
}

func (s *TimerService) notifyFocus(ctx context.Context, active bool) {
	if s.focus == nil {
		return
	}
	var err error
	if active {
		err = s.focus.SessionStarted(ctx)
	} else {
		err = s.focus.SessionEnded(ctx)
	}
	if err != nil {
		s.logger.Warn("focus gate not updated", "active", active, "error", err)
	}
}

func (s *TimerService) startTicker() {
	if s.ticker != nil {
		return
	}
	s.ticker = s.sched.Every(TickInterval, func() {
		s.Tick(context.Background())
	})
}

func (s *TimerService) stopTicker() {
	if s.ticker == nil {
		return
	}
	s.ticker.Cancel()
	s.ticker = nil
}

func (s *TimerService) save(ctx context.Context, session domain.Session) error {
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Save(ctx, session)
}

func (s *TimerService) current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}
