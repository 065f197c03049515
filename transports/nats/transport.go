// Package nats carries query-string parameters over NATS.
//
// Values are normalized and encoded as query-string text, published on a
// namespaced subject, and decoded back into String Objects on delivery.
// Request/reply is supported through NATS inboxes.
package nats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/RobertWHurst/qso"
)

// DefaultNamespace is the subject prefix used when none is configured.
const DefaultNamespace = "qso"

// DefaultRequestTimeout bounds Request calls made without a deadline.
const DefaultRequestTimeout = 30 * time.Second

// ContentType is set on the Content-Type header of every published message.
const ContentType = "application/x-www-form-urlencoded"

// ErrClosed is returned when the transport has been closed.
var ErrClosed = errors.New("transport closed")

// Transport publishes and receives query-string parameters over a NATS
// connection. It does not own the connection.
type Transport struct {
	conn      *nats.Conn
	codec     *qso.Codec
	logger    *slog.Logger
	namespace string

	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger used for delivery and reply failures.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// WithCodec sets the query-string codec used for payloads.
func WithCodec(codec *qso.Codec) Option {
	return func(t *Transport) {
		t.codec = codec
	}
}

// WithNamespace sets the subject prefix.
func WithNamespace(ns string) Option {
	return func(t *Transport) {
		t.namespace = ns
	}
}

// New creates a transport on top of an established NATS connection.
func New(conn *nats.Conn, opts ...Option) *Transport {
	t := &Transport{
		conn:      conn,
		codec:     qso.New(),
		logger:    slog.Default(),
		namespace: DefaultNamespace,
		subs:      make(map[*Subscription]struct{}),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Subject returns the NATS subject used for subject.
func (t *Transport) Subject(subject string) string {
	return namespace(t.namespace, subject)
}

// Send publishes v as a fire-and-forget message. v may be a *qso.Value, a
// query string, or any value accepted by qso.Normalize.
func (t *Transport) Send(subject string, v any) error {
	if t.isClosed() {
		return ErrClosed
	}
	msg, err := t.newMsg(t.Subject(subject), v)
	if err != nil {
		return err
	}
	return t.conn.PublishMsg(msg)
}

// Request sends v and waits for a reply with DefaultRequestTimeout.
// The returned Message carries the reply or the error that ended the wait.
func (t *Transport) Request(subject string, v any) *Message {
	return t.RequestWithTimeout(subject, v, DefaultRequestTimeout)
}

// RequestWithTimeout sends v and waits for a reply for at most timeout.
func (t *Transport) RequestWithTimeout(subject string, v any, timeout time.Duration) *Message {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return t.RequestWithCtx(ctx, subject, v)
}

// RequestWithCtx sends v and waits for a reply until ctx is done. A ctx
// without a deadline is bounded by DefaultRequestTimeout.
func (t *Transport) RequestWithCtx(ctx context.Context, subject string, v any) *Message {
	if t.isClosed() {
		return &Message{err: ErrClosed}
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultRequestTimeout)
		defer cancel()
	}
	msg, err := t.newMsg(t.Subject(subject), v)
	if err != nil {
		return &Message{err: err}
	}
	reply, err := t.conn.RequestMsgWithContext(ctx, msg)
	if err != nil {
		return &Message{err: err}
	}
	return t.newMessage(reply)
}

// Handle subscribes to subject. Every transport subscribed to the subject
// receives each message.
func (t *Transport) Handle(subject string) (*Subscription, error) {
	return t.subscribe(subject, "")
}

// HandleQueue subscribes to subject as a member of queue. Each message is
// delivered to only one member of the queue.
func (t *Transport) HandleQueue(subject, queue string) (*Subscription, error) {
	if queue == "" {
		queue = t.Subject(subject)
	}
	return t.subscribe(subject, queue)
}

// Close unsubscribes every open subscription. The NATS connection is left
// open.
func (t *Transport) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	subs := make([]*Subscription, 0, len(t.subs))
	for s := range t.subs {
		subs = append(subs, s)
	}
	t.mu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := s.Unbind(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Transport) subscribe(subject, queue string) (*Subscription, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrClosed
	}

	s := newSubscription(t, subject)
	natsSubject := t.Subject(subject)
	handler := func(msg *nats.Msg) {
		s.deliver(t.newMessage(msg))
	}

	var err error
	if queue == "" {
		s.sub, err = t.conn.Subscribe(natsSubject, handler)
	} else {
		s.sub, err = t.conn.QueueSubscribe(natsSubject, queue, handler)
	}
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", natsSubject, err)
	}

	t.subs[s] = struct{}{}
	return s, nil
}

func (t *Transport) forget(s *Subscription) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.subs, s)
}

func (t *Transport) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// newMsg builds an outgoing NATS message carrying v as query-string text.
func (t *Transport) newMsg(subject string, v any) (*nats.Msg, error) {
	var data []byte
	switch dv := v.(type) {
	case string:
		data = []byte(dv)
	case []byte:
		data = dv
	default:
		encoded, err := t.codec.Encode(v)
		if err != nil {
			return nil, err
		}
		data = encoded
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set("Content-Type", ContentType)
	return msg, nil
}

// newMessage decodes an incoming NATS message. A payload that does not
// decode is delivered with its error set.
func (t *Transport) newMessage(msg *nats.Msg) *Message {
	m := &Message{
		Subject:   msg.Subject,
		transport: t,
		reply:     msg.Reply,
		raw:       msg.Data,
	}

	if err := t.codec.Decode(msg.Data, &m.params); err != nil {
		t.logger.Warn("failed to decode query-string payload", "subject", msg.Subject, "error", err)
		m.err = err
	}
	return m
}
