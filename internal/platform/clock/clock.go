package clock

import (
	"sync"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Handle is a pending callback registered with a Scheduler.
type Handle interface {
	// Cancel stops the callback from firing again. It reports whether the
	// handle was still pending.
	Cancel() bool
}

// Scheduler runs callbacks after a delay or on a fixed period.
type Scheduler interface {
	Clock
	After(d time.Duration, fn func()) Handle
	Every(d time.Duration, fn func()) Handle
}

type SystemScheduler struct {
	SystemClock
}

func (SystemScheduler) After(d time.Duration, fn func()) Handle {
	return timerHandle{t: time.AfterFunc(d, fn)}
}

func (SystemScheduler) Every(d time.Duration, fn func()) Handle {
	h := &tickerHandle{stop: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return h
}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Cancel() bool {
	return h.t.Stop()
}

type tickerHandle struct {
	once sync.Once
	stop chan struct{}
}

func (h *tickerHandle) Cancel() bool {
	cancelled := false
	h.once.Do(func() {
		close(h.stop)
		cancelled = true
	})
	return cancelled
}
