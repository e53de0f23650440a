package dto

import "time"

type RecordInput struct {
	// ID is optional; a repeated id is not recorded twice.
	ID              string
	SessionID       string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Completed       bool
	Type            string
	AudioUsed       string
	Activities      []string
}

type RecordOutput struct {
	ID              string
	SessionID       string
	StartTime       time.Time
	EndTime         time.Time
	DurationMinutes int
	Completed       bool
	Type            string
	AudioUsed       string
	Activities      []string
}

type SummaryOutput struct {
	TotalStudyTime    int
	SessionsCompleted int
	SessionsRecorded  int
	StudyStreak       int
	LongestStreak     int
	LastStudyDate     time.Time
}

type BucketOutput struct {
	Label   string
	Start   time.Time
	Minutes int
}

type TypeShareOutput struct {
	Type    string
	Minutes int
}

type ScheduledStudyOutput struct {
	Total     int
	Completed int
	Ratio     float64
}
