package dto

import "time"

type CreateItemInput struct {
	Title        string
	Description  string
	Type         string
	StartTime    time.Time
	Reminder     bool
	ReminderTime time.Time
}

// UpdateItemInput applies only the non-nil fields.
type UpdateItemInput struct {
	ID           string
	Title        *string
	Description  *string
	Type         *string
	StartTime    *time.Time
	Reminder     *bool
	ReminderTime *time.Time
}

type ItemOutput struct {
	ID           string
	Title        string
	Description  string
	Type         string
	StartTime    time.Time
	Reminder     bool
	ReminderTime time.Time
	IsCompleted  bool
}
