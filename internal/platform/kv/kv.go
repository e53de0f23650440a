// Package kv is the durable key-value store: one JSON document per logical
// key, written through diskv. Writes to the same key are serialized.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

// Logical keys.
const (
	KeyTimerSnapshot   = "timer-snapshot"
	KeyTimerDefault    = "timer-default-duration"
	KeyStats           = "stats"
	KeyAgendaItems     = "agenda-items"
	KeyFocusState      = "focus-state"
	KeyAlertPermission = "alert-permission"
)

type Store struct {
	d        *diskv.Diskv
	basePath string

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func Open(basePath string) (*Store, error) {
	if basePath == "" {
		return nil, errors.New("kv: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure base path: %w", err)
	}
	// Writes land via rename from tempDir so readers never see a torn file.
	tempDir := filepath.Join(filepath.Dir(basePath), ".kv-tmp")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("kv: ensure temp dir: %w", err)
	}
	return &Store{
		// No read cache: other processes write the same files.
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			TempDir:      tempDir,
			CacheSizeMax: 0,
		}),
		basePath: basePath,
		locks:    map[string]*sync.Mutex{},
	}, nil
}

func (s *Store) lock(key string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	mu, ok := s.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[key] = mu
	}
	return mu
}

// Get decodes the value stored at key into dst. It reports false when the
// key has never been written.
func (s *Store) Get(ctx context.Context, key string, dst any) (bool, error) {
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()
	return s.get(ctx, key, dst)
}

func (s *Store) get(ctx context.Context, key string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if !s.d.Has(key) {
		return false, nil
	}
	raw, err := s.d.Read(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("kv: read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("kv: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) Set(ctx context.Context, key string, value any) error {
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()
	return s.set(ctx, key, value)
}

func (s *Store) set(ctx context.Context, key string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv: encode %s: %w", key, err)
	}
	if err := s.d.Write(key, raw); err != nil {
		return fmt.Errorf("kv: write %s: %w", key, err)
	}
	return nil
}

// Update runs a read-modify-write on key while holding its write lock. dst
// receives the current value (left untouched when absent); fn returns the
// value to store.
func (s *Store) Update(ctx context.Context, key string, dst any, fn func(found bool) (any, error)) error {
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()
	found, err := s.get(ctx, key, dst)
	if err != nil {
		return err
	}
	next, err := fn(found)
	if err != nil {
		return err
	}
	return s.set(ctx, key, next)
}

func (s *Store) Delete(_ context.Context, key string) error {
	mu := s.lock(key)
	mu.Lock()
	defer mu.Unlock()
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("kv: erase %s: %w", key, err)
	}
	return nil
}
