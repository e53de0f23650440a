package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"estudozen/internal/platform/clock"
)

func TestFakeFiresInOrderAndCancels(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	fake := clock.NewFake(start)

	var fired []string
	fake.After(3*time.Second, func() { fired = append(fired, "b") })
	fake.After(time.Second, func() { fired = append(fired, "a") })
	dropped := fake.After(2*time.Second, func() { fired = append(fired, "dropped") })
	require.True(t, dropped.Cancel())
	require.False(t, dropped.Cancel())

	fake.Advance(5 * time.Second)
	assert.Equal(t, []string{"a", "b"}, fired)
	assert.Equal(t, start.Add(5*time.Second), fake.Now())
	assert.Zero(t, fake.Pending())
}

func TestFakeEveryRepeatsUntilCancelled(t *testing.T) {
	t.Parallel()
	fake := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	count := 0
	h := fake.Every(time.Second, func() { count++ })
	fake.Advance(3500 * time.Millisecond)
	assert.Equal(t, 3, count)
	h.Cancel()
	fake.Advance(10 * time.Second)
	assert.Equal(t, 3, count)
}

func TestFakeCallbackCanScheduleMore(t *testing.T) {
	t.Parallel()
	fake := clock.NewFake(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC))
	var at []time.Time
	fake.After(time.Second, func() {
		at = append(at, fake.Now())
		fake.After(time.Second, func() { at = append(at, fake.Now()) })
	})
	fake.Advance(5 * time.Second)
	require.Len(t, at, 2)
	assert.Equal(t, time.Second, at[1].Sub(at[0]))
}
