package domain

import (
	"testing"

	"estudozen/internal/platform/alert"
)

func TestBlockRequiresGrantedPermission(t *testing.T) {
	t.Parallel()
	for _, perm := range []alert.Permission{alert.PermissionDefault, alert.PermissionDenied} {
		s, changed := NewState(perm).Block(perm)
		if changed || s.IsBlocked {
			t.Fatalf("block with %s must not transition, got %+v", perm, s)
		}
	}
	s, changed := NewState(alert.PermissionGranted).Block(alert.PermissionGranted)
	if !changed || !s.IsBlocked || s.Captured != alert.PermissionGranted {
		t.Fatalf("expected blocked with captured permission, got %+v", s)
	}
	if s.EffectivePermission() != alert.PermissionDenied {
		t.Fatalf("blocked gate must deny, got %s", s.EffectivePermission())
	}
}

func TestUnblockRestoresAndIsNoopWhenOpen(t *testing.T) {
	t.Parallel()
	open := NewState(alert.PermissionGranted)
	if s, changed := open.Unblock(); changed || s != open {
		t.Fatalf("unblock on open gate must be a no-op, got %+v", s)
	}
	blocked, _ := open.Block(alert.PermissionGranted)
	restored, changed := blocked.Unblock()
	if !changed || restored != open {
		t.Fatalf("expected full restore to %+v, got %+v", open, restored)
	}
}

func TestSessionsDoNotStack(t *testing.T) {
	t.Parallel()
	s := NewState(alert.PermissionGranted)
	s = s.StartSession(alert.PermissionGranted)
	s = s.StartSession(alert.PermissionGranted)
	s = s.EndSession()
	if s.IsBlocked || s.IsSessionActive {
		t.Fatalf("one end must release overlapping starts, got %+v", s)
	}
	if s.EffectivePermission() != alert.PermissionGranted {
		t.Fatalf("expected granted after end, got %s", s.EffectivePermission())
	}
}

func TestManualBlockOutlivesSession(t *testing.T) {
	t.Parallel()
	manual, _ := NewState(alert.PermissionGranted).BlockManually(alert.PermissionGranted)
	s := manual.StartSession(alert.PermissionGranted).EndSession()
	if !s.IsBlocked || !s.IsManual || s.IsSessionActive {
		t.Fatalf("ending a session must keep a manual block, got %+v", s)
	}

	// Turning do-not-disturb on mid-session makes the shared block manual.
	s = NewState(alert.PermissionGranted).StartSession(alert.PermissionGranted)
	if s, changed := s.BlockManually(alert.PermissionGranted); changed || !s.IsManual {
		t.Fatalf("expected existing block to become manual, got %+v", s)
	} else if s = s.EndSession(); !s.IsBlocked {
		t.Fatalf("session end released a manual block: %+v", s)
	}

	s, _ = manual.Unblock()
	if s.IsBlocked || s.IsManual || s.Permission != alert.PermissionGranted {
		t.Fatalf("unblock must clear a manual block, got %+v", s)
	}
}

func TestSyncIgnoredWhileBlocked(t *testing.T) {
	t.Parallel()
	s, _ := NewState(alert.PermissionGranted).Block(alert.PermissionGranted)
	s = s.Sync(alert.PermissionDenied)
	if s.Captured != alert.PermissionGranted || s.Permission != alert.PermissionGranted {
		t.Fatalf("sync must not leak into a blocked gate, got %+v", s)
	}
	s, _ = s.Unblock()
	if s = s.Sync(alert.PermissionDenied); s.Permission != alert.PermissionDenied {
		t.Fatalf("sync must mirror while open, got %+v", s)
	}
}
