package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

type Mode string

const (
	ModeCountUp   Mode = "count-up"
	ModeCountDown Mode = "count-down"
)

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StatePaused    State = "paused"
	StateCompleted State = "completed"
)

// Recording thresholds in seconds. A pause records a count-down run only
// past MinCountDownRecordSeconds; a reset records past MinResetRecordSeconds;
// a paused count-up run counts as completed from CountUpCompletedSeconds.
const (
	MinCountDownRecordSeconds = 120
	MinResetRecordSeconds     = 60
	CountUpCompletedSeconds   = 300
	DefaultCountDownSeconds   = 25 * 60
	MaxCountDownSeconds       = 24 * 60 * 60
)

// Default ledger tags per mode.
const (
	TypeStopwatch = "stopwatch"
	TypePomodoro  = "pomodoro"
)

// Session is the in-memory timer, persisted as a snapshot. Running time is
// derived from the wall clock (Accrued plus time since RunningSince), never
// from counted ticks. Recorded is the part of Accrued already handed to the
// ledger; only whole seconds are ever recorded.
type Session struct {
	Schema           int           `json:"schema"`
	Mode             Mode          `json:"mode"`
	State            State         `json:"state"`
	Elapsed          int           `json:"elapsed"`
	Remaining        int           `json:"remaining"`
	InitialDuration  int           `json:"initial_duration"`
	SessionID        string        `json:"session_id,omitempty"`
	StartedAt        time.Time     `json:"started_at"`
	SegmentStartedAt time.Time     `json:"segment_started_at"`
	RunningSince     time.Time     `json:"running_since"`
	Accrued          time.Duration `json:"accrued"`
	Recorded         time.Duration `json:"recorded"`
	Type             string        `json:"type"`
	AudioUsed        string        `json:"audio_used,omitempty"`
	Activities       []string      `json:"activities,omitempty"`
}

func NewSession(mode Mode, initialDuration int) Session {
	if initialDuration <= 0 || initialDuration > MaxCountDownSeconds {
		initialDuration = DefaultCountDownSeconds
	}
	s := Session{Schema: SchemaVersion, Mode: mode, InitialDuration: initialDuration, Type: defaultType(mode)}
	return s.idle()
}

// Finished is one run handed to the ledger. Offset is the running time of
// the session already recorded before this run, in seconds.
type Finished struct {
	SessionID  string
	Offset     int
	Type       string
	StartedAt  time.Time
	EndedAt    time.Time
	Seconds    int
	Completed  bool
	AudioUsed  string
	Activities []string
}

// RecordID is stable for a given run, so replaying a transition after a
// restart yields the same ledger id.
func (f Finished) RecordID() string {
	return fmt.Sprintf("%s.%d", f.SessionID, f.Offset)
}

func (f Finished) DurationMinutes() int {
	return f.Seconds / 60
}

func (s Session) IsRunning() bool { return s.State == StateRunning }

// Active reports whether the session holds an identity.
func (s Session) Active() bool { return s.SessionID != "" }

func (s Session) accruedAt(now time.Time) time.Duration {
	total := s.Accrued
	if s.IsRunning() && now.After(s.RunningSince) {
		total += now.Sub(s.RunningSince)
	}
	return total
}

// ElapsedAt is the whole seconds of running time at now, capped at the
// configured duration for count-down.
func (s Session) ElapsedAt(now time.Time) int {
	secs := int(s.accruedAt(now) / time.Second)
	if s.Mode == ModeCountDown && secs > s.InitialDuration {
		secs = s.InitialDuration
	}
	return secs
}

// At returns the session with display fields refreshed for now.
func (s Session) At(now time.Time) Session {
	if s.State == StateIdle || s.State == StateCompleted {
		return s
	}
	s.Elapsed = s.ElapsedAt(now)
	if s.Mode == ModeCountDown {
		s.Remaining = s.InitialDuration - s.Elapsed
	}
	return s
}

func (s Session) overdue(now time.Time) bool {
	return s.Mode == ModeCountDown && s.accruedAt(now) >= time.Duration(s.InitialDuration)*time.Second
}

func (s Session) pendingSeconds() int {
	return int((s.Accrued - s.Recorded) / time.Second)
}

func (s Session) bank(now time.Time) Session {
	if !s.IsRunning() {
		return s
	}
	s.Accrued = s.accruedAt(now)
	s.RunningSince = time.Time{}
	return s
}

func (s Session) idle() Session {
	s.State = StateIdle
	s.Elapsed = 0
	s.Remaining = 0
	if s.Mode == ModeCountDown {
		s.Remaining = s.InitialDuration
	}
	return s.clearIdentity()
}

func (s Session) clearIdentity() Session {
	s.SessionID = ""
	s.StartedAt = time.Time{}
	s.SegmentStartedAt = time.Time{}
	s.RunningSince = time.Time{}
	s.Accrued = 0
	s.Recorded = 0
	s.Activities = nil
	s.AudioUsed = ""
	return s
}

func (s Session) finished(endedAt time.Time, seconds int, completed bool) Finished {
	started := s.SegmentStartedAt
	if started.IsZero() {
		started = s.StartedAt
	}
	return Finished{
		SessionID:  s.SessionID,
		Offset:     int(s.Recorded / time.Second),
		Type:       s.Type,
		StartedAt:  started,
		EndedAt:    endedAt,
		Seconds:    seconds,
		Completed:  completed,
		AudioUsed:  s.AudioUsed,
		Activities: append([]string(nil), s.Activities...),
	}
}

func defaultType(mode Mode) string {
	if mode == ModeCountDown {
		return TypePomodoro
	}
	return TypeStopwatch
}
