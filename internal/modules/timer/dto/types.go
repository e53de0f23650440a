package dto

import "time"

// MaxDurationMinutes is the longest count-down accepted, one day.
const MaxDurationMinutes = 24 * 60

type StartInput struct {
	// Type tags the ledger record; empty keeps the mode default.
	Type string
}

type AnnotateInput struct {
	Activity  string
	AudioUsed string
	Type      string
}

type SessionOutput struct {
	SessionID       string
	Mode            string
	State           string
	Elapsed         int
	Remaining       int
	InitialDuration int
	Type            string
	AudioUsed       string
	Activities      []string
	StartedAt       time.Time
}

// Shown is the figure a display leads with: time left when counting down,
// time spent when counting up.
func (o SessionOutput) Shown() int {
	if o.Mode == "count-up" {
		return o.Elapsed
	}
	return o.Remaining
}
