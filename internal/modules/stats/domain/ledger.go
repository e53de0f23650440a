package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "estudozen/internal/platform/errors"
)

const SchemaVersion = 1

// SessionRecord is written once and never changed.
type SessionRecord struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"session_id,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Completed       bool      `json:"completed"`
	Type            string    `json:"type"`
	AudioUsed       string    `json:"audio_used,omitempty"`
	Activities      []string  `json:"activities,omitempty"`
}

func (r SessionRecord) Validate() error {
	if r.DurationMinutes < 0 {
		return fmt.Errorf("%w: negative duration %d", apperrors.ErrInvalidInput, r.DurationMinutes)
	}
	if r.StartTime.IsZero() || r.EndTime.IsZero() {
		return fmt.Errorf("%w: record needs start and end time", apperrors.ErrInvalidInput)
	}
	if r.EndTime.Before(r.StartTime) {
		return fmt.Errorf("%w: record ends before it starts", apperrors.ErrInvalidInput)
	}
	if strings.TrimSpace(r.Type) == "" {
		return fmt.Errorf("%w: record type is required", apperrors.ErrInvalidInput)
	}
	return nil
}

// Aggregate is the single persisted statistics row. TotalStudyTime and
// SessionsCompleted only move on completed records.
type Aggregate struct {
	Schema            int             `json:"schema"`
	TotalStudyTime    int             `json:"total_study_time"`
	SessionsCompleted int             `json:"sessions_completed"`
	StudyStreak       int             `json:"study_streak"`
	LongestStreak     int             `json:"longest_streak"`
	LastStudyDate     time.Time       `json:"last_study_date"`
	StudySessions     []SessionRecord `json:"study_sessions"`
}

func (a Aggregate) Find(id string) (SessionRecord, bool) {
	for _, r := range a.StudySessions {
		if r.ID == id {
			return r, true
		}
	}
	return SessionRecord{}, false
}

// Apply returns a with r appended. Day boundaries follow now's location.
func (a Aggregate) Apply(r SessionRecord, now time.Time) Aggregate {
	a.Schema = SchemaVersion
	a.StudySessions = append(append([]SessionRecord(nil), a.StudySessions...), r)
	if !r.Completed {
		return a
	}
	a.SessionsCompleted++
	a.TotalStudyTime += r.DurationMinutes
	a.StudyStreak = NextStreak(a.StudyStreak, a.LastStudyDate, now)
	if a.StudyStreak > a.LongestStreak {
		a.LongestStreak = a.StudyStreak
	}
	a.LastStudyDate = now
	return a
}

// NextStreak advances the streak by at most one per calendar day: a second
// completion on the same day keeps it, one the day after extends it, and any
// longer gap restarts it.
func NextStreak(streak int, last, now time.Time) int {
	if last.IsZero() || streak <= 0 {
		return 1
	}
	today := Day(now)
	lastDay := Day(last.In(now.Location()))
	switch {
	case !lastDay.Before(today):
		return streak
	case lastDay.Equal(today.AddDate(0, 0, -1)):
		return streak + 1
	default:
		return 1
	}
}

// CurrentStreak is the streak as of now: it reads zero once a full day has
// passed without a completion.
func (a Aggregate) CurrentStreak(now time.Time) int {
	if a.LastStudyDate.IsZero() {
		return 0
	}
	if Day(a.LastStudyDate.In(now.Location())).Before(Day(now).AddDate(0, 0, -1)) {
		return 0
	}
	return a.StudyStreak
}

func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
