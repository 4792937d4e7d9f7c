// Package stream provides the minimal broadcast primitive the controllers
// publish their observable state through: column snapshots and the logged-in
// flag.
package stream

import "sync"

// subscriberBuffer bounds how far a slow subscriber may fall behind before
// old values are dropped in favor of newer ones.
const subscriberBuffer = 16

// Stream broadcasts values to any number of subscribers. There is no replay:
// a subscriber only receives values published after it subscribed, so callers
// that need an initial snapshot must ask the publisher to re-publish (see
// Controller.UpdateSubscribers).
//
// Publishing never blocks. When a subscriber's buffer is full the oldest
// buffered value is dropped, keeping the latest values flowing.
type Stream[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan T
}

// New returns a stream with no subscribers.
func New[T any]() *Stream[T] {
	return &Stream[T]{subs: make(map[int]chan T)}
}

// Subscribe registers a new subscriber and returns its receive channel along
// with a cancel function. Cancel must be called when the observer goes away;
// it closes the channel and removes the registration.
func (s *Stream[T]) Subscribe() (<-chan T, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan T, subscriberBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ch, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers v to every current subscriber.
func (s *Stream[T]) Publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- v:
		default:
			// Full buffer: drop the oldest value, then retry once. The
			// second send can only fail if a reader raced us, in which
			// case there is room for v on the next publish anyway.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

// Len reports the number of active subscribers.
func (s *Stream[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
