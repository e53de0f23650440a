package dto

import "time"

type PendingOutput struct {
	ItemID string
	Title  string
	FireAt time.Time
}
