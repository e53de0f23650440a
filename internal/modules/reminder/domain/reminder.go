package domain

import (
	"fmt"
	"strings"
	"time"
)

// Item is the part of an agenda item the scheduler reads.
type Item struct {
	ID           string
	Title        string
	Description  string
	StartTime    time.Time
	Reminder     bool
	ReminderTime time.Time
	IsCompleted  bool
}

// Eligible reports whether item should have a pending reminder at now.
func Eligible(item Item, now time.Time) bool {
	return item.Reminder && !item.IsCompleted && item.ReminderTime.After(now)
}

// AlertFor derives the alert text for item.
func AlertFor(item Item) (string, string) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Reminder"
	}
	body := fmt.Sprintf("starts at %s", item.StartTime.Local().Format("Mon 02 Jan 15:04"))
	if desc := strings.TrimSpace(item.Description); desc != "" {
		body = body + " - " + desc
	}
	return title, body
}

// Pending is a scheduled fire, in memory only.
type Pending struct {
	ItemID string
	Title  string
	FireAt time.Time
}

// GateStatus is the do-not-disturb view consulted at fire time.
type GateStatus struct {
	Suppressed bool
	Permission string
}

const PermissionGranted = "granted"

type Outcome string

const (
	OutcomeDelivered  Outcome = "delivered"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeDenied     Outcome = "denied"
	OutcomeFailed     Outcome = "failed"
)

// Decide picks what a firing reminder does under gate.
func Decide(gate GateStatus) Outcome {
	switch {
	case gate.Suppressed:
		return OutcomeSuppressed
	case gate.Permission != PermissionGranted:
		return OutcomeDenied
	default:
		return OutcomeDelivered
	}
}
