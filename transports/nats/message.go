package nats

import (
	"errors"

	"github.com/RobertWHurst/qso"
)

// ErrNoReply is returned by Reply when the sender did not ask for one.
var ErrNoReply = errors.New("message has no reply subject")

// Message is a received set of query-string parameters.
type Message struct {
	Subject string

	transport *Transport
	reply     string
	raw       []byte
	params    *qso.Value
	err       error
}

// Err returns the error that prevented the message from being received or
// decoded.
func (m *Message) Err() error {
	return m.err
}

// Params returns the decoded String Object.
func (m *Message) Params() *qso.Value {
	return m.params
}

// Raw returns the query-string text as received.
func (m *Message) Raw() string {
	return string(m.raw)
}

// Into stores the decoded parameters in v. See qso.Value.Into.
func (m *Message) Into(v any) error {
	if m.err != nil {
		return m.err
	}
	return m.params.Into(v)
}

// Reply sends v back to the requester.
func (m *Message) Reply(v any) error {
	if m.err != nil {
		return m.err
	}
	if m.reply == "" {
		return ErrNoReply
	}

	msg, err := m.transport.newMsg(m.reply, v)
	if err != nil {
		m.transport.logger.Error("failed to encode reply", "subject", m.Subject, "error", err)
		return err
	}
	return m.transport.conn.PublishMsg(msg)
}
