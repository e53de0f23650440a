package broadcast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"estudozen/internal/platform/broadcast"
)

func TestPublishOrderAndUnsubscribe(t *testing.T) {
	t.Parallel()
	var hub broadcast.Hub[int]
	var got []string
	unsubA := hub.Subscribe(func(v int) { got = append(got, "a") })
	hub.Subscribe(func(v int) { got = append(got, "b") })

	hub.Publish(1)
	unsubA()
	unsubA()
	hub.Publish(2)

	assert.Equal(t, []string{"a", "b", "b"}, got)
	assert.Equal(t, 1, hub.Len())
}

func TestSubscriberMayUnsubscribeDuringPublish(t *testing.T) {
	t.Parallel()
	var hub broadcast.Hub[string]
	calls := 0
	var unsub func()
	unsub = hub.Subscribe(func(string) {
		calls++
		unsub()
	})
	hub.Publish("x")
	hub.Publish("y")
	assert.Equal(t, 1, calls)
}
