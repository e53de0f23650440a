package kv

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchCoalesce = 100 * time.Millisecond

// Watch streams the names of keys whose files changed on disk, including
// writes made by other processes. Bursts on the same key are coalesced.
// The channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("kv: create watcher: %w", err)
	}
	if err := watcher.Add(s.basePath); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("kv: watch %s: %w", s.basePath, err)
	}

	out := make(chan string, 16)
	go func() {
		defer close(out)
		defer watcher.Close()

		c := newCoalescer(watchCoalesce, func(key string) {
			select {
			case out <- key:
			case <-ctx.Done():
			}
		})
		defer c.stop()

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				c.add(filepath.Base(evt.Name))
			}
		}
	}()
	return out, nil
}

type coalescer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*time.Timer
	emit    func(string)
}

func newCoalescer(delay time.Duration, emit func(string)) *coalescer {
	return &coalescer{delay: delay, pending: map[string]*time.Timer{}, emit: emit}
}

func (c *coalescer) add(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.pending[key]; ok {
		t.Reset(c.delay)
		return
	}
	c.pending[key] = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		delete(c.pending, key)
		c.mu.Unlock()
		c.emit(key)
	})
}

func (c *coalescer) stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, t := range c.pending {
		t.Stop()
		delete(c.pending, key)
	}
}
