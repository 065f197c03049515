package nats

import (
	"context"
	"sync"

	"github.com/nats-io/nats.go"
)

// Subscription receives messages published on one subject. Messages can be
// consumed with Next for blocking retrieval or To for handler-based
// processing.
type Subscription struct {
	transport *Transport
	subject   string
	sub       *nats.Subscription

	mu          sync.Mutex
	closed      bool
	handlerChan chan *Message
}

func newSubscription(t *Transport, subject string) *Subscription {
	return &Subscription{
		transport:   t,
		subject:     subject,
		handlerChan: make(chan *Message, 100),
	}
}

// Subject returns the subject the subscription was created for.
func (s *Subscription) Subject() string {
	return s.subject
}

// Next blocks until the next message arrives or ctx is done.
func (s *Subscription) Next(ctx context.Context) (*Message, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case msg, ok := <-s.handlerChan:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	}
}

// To spawns a goroutine that calls handler for each message until the
// subscription is unbound.
func (s *Subscription) To(handler func(msg *Message)) *Subscription {
	go func() {
		for msg := range s.handlerChan {
			handler(msg)
		}
	}()
	return s
}

// Unbind unsubscribes and releases the subscription. Goroutines started by
// To exit once pending messages are handled.
func (s *Subscription) Unbind() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.handlerChan)
	s.mu.Unlock()

	s.transport.forget(s)
	return s.sub.Unsubscribe()
}

func (s *Subscription) deliver(msg *Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.handlerChan <- msg:
	default:
		s.transport.logger.Warn("dropping message, subscription buffer full", "subject", msg.Subject)
	}
}
