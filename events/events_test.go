package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventPublishingAndSubscribing creates EventEmitter objects, subscribes EventHandler callbacks to them, and
// ensures that the events are received as intended.
func TestEventPublishingAndSubscribing(t *testing.T) {
	// Define some event types
	type TestEventA struct{ n int }
	type TestEventB struct{}

	// Create event emitters for both events.
	eventAEmitter := EventEmitter[TestEventA]{}
	eventBEmitter := EventEmitter[TestEventB]{}
	assert.False(t, eventAEmitter.HasSubscribers())

	// Track the events received by each callback
	var received []int
	var eventBCount int
	eventAEmitter.Subscribe(func(event TestEventA) {
		received = append(received, event.n)
	})
	eventAEmitter.Subscribe(func(event TestEventA) {
		received = append(received, -event.n)
	})
	eventBEmitter.Subscribe(func(event TestEventB) {
		eventBCount++
	})
	assert.True(t, eventAEmitter.HasSubscribers())

	// Publish events and verify subscribers are called in subscription order
	eventAEmitter.Publish(TestEventA{n: 1})
	eventAEmitter.Publish(TestEventA{n: 2})
	eventBEmitter.Publish(TestEventB{})

	assert.Equal(t, []int{1, -1, 2, -2}, received)
	assert.Equal(t, 1, eventBCount)
}
