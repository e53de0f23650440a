package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"estudozen/internal/modules/focus/domain"
	focusout "estudozen/internal/modules/focus/port/out"
	"estudozen/internal/platform/alert"
	"estudozen/internal/platform/broadcast"
	apperrors "estudozen/internal/platform/errors"
	"estudozen/internal/platform/logging"
)

// GateService is the process-wide do-not-disturb override. Every change to
// blocking goes through it so permission and IsBlocked stay consistent.
type GateService struct {
	channel focusout.AlertChannel
	store   focusout.StateStore
	logger  hclog.Logger

	mu    sync.Mutex
	state domain.State
	hub   broadcast.Hub[domain.State]
}

func NewGateService(channel focusout.AlertChannel, store focusout.StateStore, logger hclog.Logger) *GateService {
	return &GateService{
		channel: channel,
		store:   store,
		logger:  logging.OrNull(logger).Named("focus"),
		state:   domain.NewState(channel.Permission()),
	}
}

// Load restores the persisted gate so a CLI invocation and a running daemon
// agree on whether alerts are suppressed.
func (s *GateService) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	stored, found, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("%w: load focus state: %v", apperrors.ErrPersistence, err)
	}
	s.mu.Lock()
	if found {
		s.state = stored
	}
	s.state = s.state.Sync(s.channel.Permission())
	snapshot := s.state
	s.mu.Unlock()
	s.hub.Publish(snapshot)
	return nil
}

func (s *GateService) State() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Sync(s.channel.Permission())
	return s.state
}

// Block returns ErrCapabilityDenied when the channel is not granted; the
// gate is left unchanged in that case.
func (s *GateService) Block(ctx context.Context) (domain.State, error) {
	current := s.channel.Permission()
	next, err := s.mutate(ctx, func(st domain.State) domain.State {
		st, _ = st.BlockManually(current)
		return st
	})
	if err != nil {
		return next, err
	}
	if !next.IsBlocked {
		return next, fmt.Errorf("%w: permission is %s", apperrors.ErrCapabilityDenied, current)
	}
	return next, nil
}

func (s *GateService) Unblock(ctx context.Context) (domain.State, error) {
	return s.mutate(ctx, func(st domain.State) domain.State {
		st, _ = st.Unblock()
		return st
	})
}

func (s *GateService) StartStudySession(ctx context.Context) (domain.State, error) {
	current := s.channel.Permission()
	return s.mutate(ctx, func(st domain.State) domain.State {
		return st.StartSession(current)
	})
}

func (s *GateService) EndStudySession(ctx context.Context) (domain.State, error) {
	return s.mutate(ctx, func(st domain.State) domain.State {
		return st.EndSession()
	})
}

func (s *GateService) RequestPermission(ctx context.Context) (domain.State, error) {
	perm, err := s.channel.RequestPermission(ctx)
	if err != nil {
		s.logger.Warn("permission request not persisted", "error", err)
	}
	return s.mutate(ctx, func(st domain.State) domain.State {
		return st.Sync(perm)
	})
}

func (s *GateService) SetPermission(ctx context.Context, perm alert.Permission) (domain.State, error) {
	if err := s.channel.SetPermission(ctx, perm); err != nil {
		s.logger.Warn("permission change not persisted", "error", err)
	}
	return s.mutate(ctx, func(st domain.State) domain.State {
		// A denied capability cannot stay captured behind a block.
		if st.IsBlocked && perm != alert.PermissionGranted {
			st, _ = st.Unblock()
		}
		return st.Sync(perm)
	})
}

// Subscribe delivers the current snapshot immediately and then every change.
func (s *GateService) Subscribe(fn func(domain.State)) func() {
	unsubscribe := s.hub.Subscribe(fn)
	fn(s.State())
	return unsubscribe
}

func (s *GateService) mutate(ctx context.Context, fn func(domain.State) domain.State) (domain.State, error) {
	s.mu.Lock()
	before := s.state
	s.state = fn(s.state.Sync(s.channel.Permission()))
	snapshot := s.state
	s.mu.Unlock()

	if snapshot == before {
		return snapshot, nil
	}
	if s.store != nil {
		if err := s.store.Save(ctx, snapshot); err != nil {
			s.logger.Warn("focus state not persisted; keeping in-memory gate", "error", err)
		}
	}
	s.logger.Debug("focus state changed", "blocked", snapshot.IsBlocked, "session_active", snapshot.IsSessionActive, "manual", snapshot.IsManual, "permission", snapshot.Permission)
	s.hub.Publish(snapshot)
	return snapshot, nil
}
