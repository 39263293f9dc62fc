package events

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesPublished(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch, unsub := b.Subscribe(4)
	defer unsub()

	b.Publish(New(TypeRunStarted, "run-1", "run started"))

	select {
	case event := <-ch:
		assert.Equal(t, TypeRunStarted, event.Type)
		assert.Equal(t, "run-1", event.RunID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("expected event was not delivered")
	}
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	// Buffer of 1, never drained.
	_, unsub := b.Subscribe(1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(New(TypeLeadPersisted, "run-1", "persisted"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch, unsub := b.Subscribe(1)
	unsub()

	_, open := <-ch
	assert.False(t, open)

	// Double unsubscribe is safe.
	unsub()
}

func TestCloseShutsDownSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch, _ := b.Subscribe(1)
	b.Close()

	_, open := <-ch
	assert.False(t, open)

	// Publish and Subscribe after Close are safe no-ops.
	b.Publish(New(TypeRunCompleted, "run-1", "done"))
	dead, _ := b.Subscribe(1)
	_, open = <-dead
	assert.False(t, open)
}

func TestConcurrentPublishers(t *testing.T) {
	b := NewBroadcaster()
	defer b.Close()

	ch, unsub := b.Subscribe(1024)
	defer unsub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				b.Publish(New(TypeLeadValidated, "run-1", "validated"))
			}
		}()
	}
	wg.Wait()

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			require.Equal(t, 400, received)
			return
		}
	}
}

func TestWithData(t *testing.T) {
	event := New(TypeMergeCompleted, "run-1", "merged").WithData(map[string]any{"total": 9})
	assert.Equal(t, 9, event.Data["total"])
}
