package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "estudozen/internal/platform/errors"
)

// TypeStudy marks items that count toward scheduled study stats.
const TypeStudy = "study"

// Item is a schedulable agenda entry. The reminder scheduler only reads it.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Type         string    `json:"type"`
	StartTime    time.Time `json:"start_time"`
	Reminder     bool      `json:"reminder"`
	ReminderTime time.Time `json:"reminder_time"`
	IsCompleted  bool      `json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (i Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if i.StartTime.IsZero() {
		return fmt.Errorf("%w: start time is required", apperrors.ErrInvalidInput)
	}
	if i.Reminder && i.ReminderTime.IsZero() {
		return fmt.Errorf("%w: reminder time is required when reminder is on", apperrors.ErrInvalidInput)
	}
	return nil
}

func IndexOf(items []Item, id string) int {
	for idx, item := range items {
		if item.ID == id {
			return idx
		}
	}
	return -1
}
