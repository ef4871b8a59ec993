package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueue_Tick(t *testing.T) {
	t.Run("Runs items in order after their delay", func(t *testing.T) {
		// Given: two narrated items
		var lines, trace []string
		queue := NewQueue(func(line string) { lines = append(lines, line) })
		queue.Enqueue(
			Item{Narration: "first", Delay: 100 * time.Millisecond, Effect: func() { trace = append(trace, "effect1") }, After: func() { trace = append(trace, "after1") }},
			Item{Narration: "second", Delay: 100 * time.Millisecond, Effect: func() { trace = append(trace, "effect2") }},
		)

		// When: less than the first delay passes
		queue.Tick(60 * time.Millisecond)

		// Then: only the first line is shown
		assert.Equal(t, []string{"first"}, lines)
		assert.Empty(t, trace)

		// When: the first delay is covered
		queue.Tick(60 * time.Millisecond)

		// Then: the first item ran and the second line is showing
		assert.Equal(t, []string{"effect1", "after1"}, trace)
		assert.Equal(t, []string{"first", "second"}, lines)
		assert.Equal(t, 1, queue.Len())

		// When: the rest of the time passes
		queue.Tick(80 * time.Millisecond)

		// Then: the queue is drained
		assert.Equal(t, []string{"effect1", "after1", "effect2"}, trace)
		assert.True(t, queue.Idle())
	})

	t.Run("Items enqueued by a callback run in the same tick", func(t *testing.T) {
		// Given: an item whose callback enqueues a follow-up
		var trace []string
		queue := NewQueue(nil)
		queue.Enqueue(Item{
			Effect: func() { trace = append(trace, "effect") },
			After: func() {
				queue.Enqueue(Item{Effect: func() { trace = append(trace, "follow-up") }})
			},
		})

		// When: ticking once
		queue.Tick(0)

		// Then: zero delay items drain in the same tick, in order
		assert.Equal(t, []string{"effect", "follow-up"}, trace)
		assert.True(t, queue.Idle())
	})

	t.Run("Discard drops pending items", func(t *testing.T) {
		// Given: a queued effect
		ran := false
		queue := NewQueue(nil)
		queue.Enqueue(Item{Delay: time.Second, Effect: func() { ran = true }})

		// When: discarding before it is due
		queue.Discard()
		queue.Tick(2 * time.Second)

		// Then: it never runs
		assert.False(t, ran)
		assert.True(t, queue.Idle())
	})
}
