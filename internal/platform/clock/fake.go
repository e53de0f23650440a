package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Scheduler. Callbacks run synchronously on the
// goroutine calling Advance, in fire-time order.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks map[int]*fakeTask
}

type fakeTask struct {
	id     int
	at     time.Time
	period time.Duration
	fn     func()
}

type fakeHandle struct {
	f  *Fake
	id int
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start, tasks: map[int]*fakeTask{}}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) After(d time.Duration, fn func()) Handle {
	return f.schedule(d, 0, fn)
}

func (f *Fake) Every(d time.Duration, fn func()) Handle {
	return f.schedule(d, d, fn)
}

func (f *Fake) schedule(d, period time.Duration, fn func()) Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d < 0 {
		d = 0
	}
	f.seq++
	f.tasks[f.seq] = &fakeTask{id: f.seq, at: f.now.Add(d), period: period, fn: fn}
	return fakeHandle{f: f, id: f.seq}
}

func (h fakeHandle) Cancel() bool {
	h.f.mu.Lock()
	defer h.f.mu.Unlock()
	if _, ok := h.f.tasks[h.id]; !ok {
		return false
	}
	delete(h.f.tasks, h.id)
	return true
}

// Pending returns the number of callbacks still scheduled.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// Set jumps the clock without firing callbacks, simulating a suspended
// process that missed its timers.
func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}

// Advance moves the clock forward by d, firing every callback that comes due.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	for {
		next := f.nextDue(target)
		if next == nil {
			break
		}
		f.now = next.at
		if next.period > 0 {
			next.at = next.at.Add(next.period)
		} else {
			delete(f.tasks, next.id)
		}
		fn := next.fn
		f.mu.Unlock()
		fn()
		f.mu.Lock()
	}
	f.now = target
	f.mu.Unlock()
}

func (f *Fake) nextDue(target time.Time) *fakeTask {
	var next *fakeTask
	for _, task := range f.tasks {
		if task.at.After(target) {
			continue
		}
		if next == nil || task.at.Before(next.at) || (task.at.Equal(next.at) && task.id < next.id) {
			next = task
		}
	}
	return next
}
