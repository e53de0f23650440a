package domain

import "estudozen/internal/platform/alert"

// State is the do-not-disturb gate. While IsBlocked, Captured holds the
// permission that Unblock restores. IsManual marks a block the user asked
// for, which outlives the session that may share it.
type State struct {
	Permission      alert.Permission `json:"permission"`
	IsBlocked       bool             `json:"is_blocked"`
	IsSessionActive bool             `json:"is_session_active"`
	IsManual        bool             `json:"is_manual,omitempty"`
	Captured        alert.Permission `json:"captured,omitempty"`
}

func NewState(current alert.Permission) State {
	return State{Permission: current}
}

// EffectivePermission is what delivery sites must honour: denied while blocked.
func (s State) EffectivePermission() alert.Permission {
	if s.IsBlocked {
		return alert.PermissionDenied
	}
	return s.Permission
}

// Block suppresses delivery. It only transitions when current is granted;
// the second result reports whether anything changed.
func (s State) Block(current alert.Permission) (State, bool) {
	if s.IsBlocked {
		return s, false
	}
	if current != alert.PermissionGranted {
		s.Permission = current
		return s, false
	}
	s.Captured = current
	s.Permission = current
	s.IsBlocked = true
	return s, true
}

// BlockManually is Block on the user's behalf. An existing session block
// becomes manual, so ending the session leaves it in place.
func (s State) BlockManually(current alert.Permission) (State, bool) {
	s, changed := s.Block(current)
	if s.IsBlocked {
		s.IsManual = true
	}
	return s, changed
}

// Unblock restores the captured permission. Safe when not blocked.
func (s State) Unblock() (State, bool) {
	if !s.IsBlocked {
		return s, false
	}
	s.Permission = s.Captured
	s.Captured = ""
	s.IsBlocked = false
	s.IsManual = false
	return s, true
}

// StartSession does not stack: one EndSession releases it, unless the
// block is manual.
func (s State) StartSession(current alert.Permission) State {
	s.IsSessionActive = true
	s, _ = s.Block(current)
	return s
}

func (s State) EndSession() State {
	s.IsSessionActive = false
	if s.IsManual {
		return s
	}
	s, _ = s.Unblock()
	return s
}

// Sync mirrors the channel permission while unblocked. A blocked gate keeps
// its capture so Unblock restores exactly what was there.
func (s State) Sync(current alert.Permission) State {
	if s.IsBlocked {
		return s
	}
	s.Permission = current
	return s
}
