package broadcast

import (
	"context"
	"sync"
)

// Subscription is one receiver's cursor on a [Bus]. It is meant for a
// single consuming goroutine.
type Subscription struct {
	bus    *Bus
	id     uint64
	notify chan struct{}

	mu     sync.Mutex
	queue  [][]byte
	closed bool
	lagged uint64
}

// push is called with the bus lock held.
func (s *Subscription) push(frame []byte) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if len(s.queue) == s.bus.backlog {
		copy(s.queue, s.queue[1:])
		s.queue = s.queue[:len(s.queue)-1]
		s.lagged++
		s.bus.dropped.Add(1)
	}
	s.queue = append(s.queue, frame)
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) markClosed() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Recv returns the next frame. It blocks until a frame is available, the
// bus is closed and drained, or ctx is done. After the bus is closed
// Recv keeps returning buffered frames and then [ErrClosed].
func (s *Subscription) Recv(ctx context.Context) ([]byte, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			frame := s.queue[0]
			s.queue[0] = nil
			s.queue = s.queue[1:]
			s.mu.Unlock()
			s.bus.delivered.Add(1)
			return frame, nil
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return nil, ErrClosed
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Lagged returns how many frames this subscription lost to a full
// backlog.
func (s *Subscription) Lagged() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lagged
}

// Pending returns the number of buffered frames.
func (s *Subscription) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Close detaches the subscription from the bus and discards its backlog.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s.id)
	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.mu.Unlock()
	s.wake()
}
