// Package msgpack provides a MessagePack encoder for String Objects.
// MessagePack is a binary format that is faster and more compact than JSON,
// which suits forwarding decoded query parameters between services.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/RobertWHurst/qso"
)

// Encoder implements qso.Encoder using MessagePack binary serialization.
type Encoder struct {
	// Strict makes Encode fail on values with no String Object form.
	Strict bool
}

var _ qso.Encoder = &Encoder{}

// Encode normalizes v and serializes it to MessagePack bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	value, err := qso.Normalize(v, e.Strict)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(value)
}

// Decode deserializes MessagePack bytes into v.
func (d *Encoder) Decode(data []byte, v any) error {
	var value qso.Value
	if err := msgpack.Unmarshal(data, &value); err != nil {
		return err
	}
	return value.Into(v)
}

// New creates a new MessagePack encoder.
func New() *Encoder {
	return &Encoder{}
}
