package sink

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"sync"
)

var _ contract.EventSink = (*ConnectionSink)(nil)

// ConnectionSink is the outbound queue of one connection.
//
// Consume is called by the broadcaster while the relay lock is held, so it
// only appends to an unbounded queue and signals the write pump. A slow
// reader never slows down the others.
type ConnectionSink struct {
	mu     sync.Mutex
	queue  [][]byte
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

func NewConnectionSink() *ConnectionSink {
	return &ConnectionSink{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Consume is called by fanout
// Redirect the frame to the write pump that owns the socket
func (s *ConnectionSink) Consume(_ context.Context, frame []byte) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrConnectionClosed
	}
	s.queue = append(s.queue, frame)
	s.mu.Unlock()

	select {
	case s.ready <- struct{}{}:
	default:
		// A wake-up is already pending
	}
	return nil
}

// Ready is signaled whenever frames are waiting.
func (s *ConnectionSink) Ready() <-chan struct{} {
	return s.ready
}

// Done is closed by Close.
func (s *ConnectionSink) Done() <-chan struct{} {
	return s.done
}

// Drain hands over every queued frame, oldest first.
func (s *ConnectionSink) Drain() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames := s.queue
	s.queue = nil
	return frames
}

// Close rejects further frames. It is safe to call more than once.
func (s *ConnectionSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.done)
}

func (s *ConnectionSink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
