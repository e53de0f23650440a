package id

import "github.com/oklog/ulid/v2"

// Generator creates opaque identifiers.
type Generator interface {
	New() string
}

// ULID generates lexically sortable identifiers, so ledger records keep
// creation order when listed by id.
type ULID struct{}

func (ULID) New() string {
	return ulid.Make().String()
}
