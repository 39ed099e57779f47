package notify

import (
	"context"
	"sync"
)

// DummySender records notifications in memory. Used in tests.
type DummySender struct {
	mu   sync.Mutex
	sent []Message

	// FailNext makes the next Send return an error, for exercising the
	// dispatcher's swallow-and-log policy.
	FailNext error
}

func NewDummySender() *DummySender {
	return &DummySender{}
}

func (s *DummySender) Send(_ context.Context, msg Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailNext != nil {
		err := s.FailNext
		s.FailNext = nil
		return false, err
	}

	s.sent = append(s.sent, msg)
	return true, nil
}

// Sent returns a copy of everything delivered so far.
func (s *DummySender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}
