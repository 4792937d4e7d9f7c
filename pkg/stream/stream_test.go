package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yellow-notes/yellow/pkg/stream"
)

func TestPublishReachesAllSubscribers(t *testing.T) {
	s := stream.New[int]()

	ch1, cancel1 := s.Subscribe()
	defer cancel1()
	ch2, cancel2 := s.Subscribe()
	defer cancel2()

	s.Publish(42)

	assert.Equal(t, 42, <-ch1)
	assert.Equal(t, 42, <-ch2)
}

func TestNoReplayForLateSubscribers(t *testing.T) {
	s := stream.New[string]()
	s.Publish("before")

	ch, cancel := s.Subscribe()
	defer cancel()

	select {
	case v := <-ch:
		t.Fatalf("unexpected replayed value %q", v)
	default:
	}

	s.Publish("after")
	assert.Equal(t, "after", <-ch)
}

func TestCancelRemovesSubscriber(t *testing.T) {
	s := stream.New[int]()

	ch, cancel := s.Subscribe()
	require.Equal(t, 1, s.Len())

	cancel()
	assert.Equal(t, 0, s.Len())

	_, open := <-ch
	assert.False(t, open)

	// A second cancel must be harmless.
	cancel()
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	s := stream.New[int]()

	ch, cancel := s.Subscribe()
	defer cancel()

	// Publish far past the buffer size; none of these may block.
	for i := 0; i < 100; i++ {
		s.Publish(i)
	}

	// The reader lost old values but still observes the most recent one
	// after draining.
	var last int
	for {
		select {
		case v := <-ch:
			last = v
			continue
		default:
		}
		break
	}
	assert.Equal(t, 99, last)
}
