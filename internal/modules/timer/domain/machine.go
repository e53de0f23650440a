package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "estudozen/internal/platform/errors"
)

type EventKind int

const (
	EventStart EventKind = iota + 1
	EventPause
	EventTick
	EventReset
	EventSetDuration
	EventSetMode
	EventAnnotate
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventPause:
		return "pause"
	case EventTick:
		return "tick"
	case EventReset:
		return "reset"
	case EventSetDuration:
		return "set-duration"
	case EventSetMode:
		return "set-mode"
	case EventAnnotate:
		return "annotate"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a timer input. Only the fields relevant to Kind are read.
type Event struct {
	Kind EventKind
	// SessionID names the run a Start from idle opens.
	SessionID string
	// Type overrides the ledger tag on Start or Annotate.
	Type      string
	Seconds   int
	Mode      Mode
	Activity  string
	AudioUsed string
}

type EffectKind int

const (
	EffectStartTicker EffectKind = iota + 1
	EffectStopTicker
	EffectFinished
	EffectPersistDefault
)

type Effect struct {
	Kind     EffectKind
	Finished Finished
	Seconds  int
}

// Transition applies ev to s at now. It is pure: the caller performs the
// returned effects in order.
func Transition(s Session, ev Event, now time.Time) (Session, []Effect, error) {
	switch ev.Kind {
	case EventStart:
		return start(s, ev, now)
	case EventPause:
		return pause(s, now)
	case EventTick:
		return tick(s, now)
	case EventReset:
		return reset(s, now)
	case EventSetDuration:
		return setDuration(s, ev.Seconds)
	case EventSetMode:
		return setMode(s, ev.Mode)
	case EventAnnotate:
		return annotate(s, ev), nil, nil
	default:
		return s, nil, fmt.Errorf("%w: unknown event %s", apperrors.ErrInvalidTransition, ev.Kind)
	}
}

func start(s Session, ev Event, now time.Time) (Session, []Effect, error) {
	switch s.State {
	case StateRunning:
		return s, nil, nil
	case StatePaused:
		if s.Accrued-s.Recorded < time.Second {
			s.SegmentStartedAt = now
		}
	default:
		if strings.TrimSpace(ev.SessionID) == "" {
			return s, nil, fmt.Errorf("%w: start needs a session id", apperrors.ErrInvalidInput)
		}
		annotations := s
		s = s.idle()
		s.SessionID = ev.SessionID
		s.StartedAt = now
		s.SegmentStartedAt = now
		s.Activities = annotations.Activities
		s.AudioUsed = annotations.AudioUsed
		if ev.Type != "" {
			s.Type = ev.Type
		}
	}
	s.State = StateRunning
	s.RunningSince = now
	return s.At(now), []Effect{{Kind: EffectStartTicker}}, nil
}

func pause(s Session, now time.Time) (Session, []Effect, error) {
	if !s.IsRunning() {
		return s, nil, nil
	}
	if s.overdue(now) {
		s, effects := complete(s, now)
		return s, effects, nil
	}
	s = s.bank(now)
	s.State = StatePaused
	s = s.At(now)
	effects := []Effect{{Kind: EffectStopTicker}}

	pending := s.pendingSeconds()
	record := pending > 0
	if s.Mode == ModeCountDown {
		record = pending >= MinCountDownRecordSeconds
	}
	if record {
		completed := s.Mode == ModeCountUp && pending >= CountUpCompletedSeconds
		effects = append(effects, Effect{Kind: EffectFinished, Finished: s.finished(now, pending, completed)})
		s.Recorded += time.Duration(pending) * time.Second
	}
	return s, effects, nil
}

func tick(s Session, now time.Time) (Session, []Effect, error) {
	if !s.IsRunning() {
		return s, nil, nil
	}
	if s.overdue(now) {
		s, effects := complete(s, now)
		return s, effects, nil
	}
	return s.At(now), nil, nil
}

// complete ends a running count-down. The end instant is when the configured
// duration was reached, which is earlier than now after a suspension.
func complete(s Session, now time.Time) (Session, []Effect) {
	target := time.Duration(s.InitialDuration) * time.Second
	endedAt := now
	if reached := s.RunningSince.Add(target - s.Accrued); reached.Before(now) {
		endedAt = reached
	}
	s.Accrued = target
	s.RunningSince = time.Time{}
	finished := s.finished(endedAt, s.pendingSeconds(), true)

	s = s.clearIdentity()
	s.State = StateCompleted
	s.Elapsed = s.InitialDuration
	s.Remaining = 0
	return s, []Effect{{Kind: EffectStopTicker}, {Kind: EffectFinished, Finished: finished}}
}

func reset(s Session, now time.Time) (Session, []Effect, error) {
	var effects []Effect
	if s.IsRunning() {
		if s.overdue(now) {
			s, effects = complete(s, now)
			return s.idle(), effects, nil
		}
		s = s.bank(now)
		effects = append(effects, Effect{Kind: EffectStopTicker})
	}
	if s.Active() {
		if pending := s.pendingSeconds(); pending >= MinResetRecordSeconds {
			effects = append(effects, Effect{Kind: EffectFinished, Finished: s.finished(now, pending, false)})
		}
	}
	return s.idle(), effects, nil
}

func setDuration(s Session, seconds int) (Session, []Effect, error) {
	if s.State == StateRunning || s.State == StatePaused {
		return s, nil, fmt.Errorf("%w: duration can only change while idle", apperrors.ErrInvalidTransition)
	}
	if seconds <= 0 || seconds > MaxCountDownSeconds {
		return s, nil, fmt.Errorf("%w: %d seconds, want 1..%d", apperrors.ErrInvalidDuration, seconds, MaxCountDownSeconds)
	}
	s.InitialDuration = seconds
	return s.idle(), []Effect{{Kind: EffectPersistDefault, Seconds: seconds}}, nil
}

func setMode(s Session, mode Mode) (Session, []Effect, error) {
	if mode != ModeCountUp && mode != ModeCountDown {
		return s, nil, fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidInput, mode)
	}
	if s.State == StateRunning || s.State == StatePaused {
		return s, nil, fmt.Errorf("%w: mode can only change while idle", apperrors.ErrInvalidTransition)
	}
	if s.Type == defaultType(s.Mode) {
		s.Type = defaultType(mode)
	}
	s.Mode = mode
	return s.idle(), nil, nil
}

func annotate(s Session, ev Event) Session {
	if a := strings.TrimSpace(ev.Activity); a != "" {
		s.Activities = append(append([]string(nil), s.Activities...), a)
	}
	if ev.AudioUsed != "" {
		s.AudioUsed = ev.AudioUsed
	}
	if ev.Type != "" {
		s.Type = ev.Type
	}
	return s
}

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeCountUp, ModeCountDown:
		return m, nil
	case "up", "stopwatch":
		return ModeCountUp, nil
	case "down", "pomodoro":
		return ModeCountDown, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q", apperrors.ErrInvalidInput, s)
	}
}
