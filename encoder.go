package qso

import "fmt"

// Encoder defines the interface for serializing String Objects to a wire
// format and back. Implementations include query-string text (Codec) and
// the JSON, MessagePack, CBOR and Protocol Buffers encoders.
type Encoder interface {
	// Encode serializes v into bytes.
	Encode(v any) ([]byte, error)

	// Decode deserializes data into v.
	Decode(data []byte, v any) error
}

// Codec implements Encoder using query-string text.
type Codec struct {
	// Prefix nests every encoded key below it.
	Prefix string
	// Strict makes Encode fail on values with no String Object form
	// instead of coercing or dropping them.
	Strict bool
}

var _ Encoder = &Codec{}

// New creates a lenient query-string codec with no prefix.
func New() *Codec {
	return &Codec{}
}

// Encode normalizes v and serializes it as query-string text.
func (c *Codec) Encode(v any) ([]byte, error) {
	value, err := Normalize(v, c.Strict)
	if err != nil {
		return nil, err
	}
	text, err := encode(value, c.Prefix, false)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

// Decode parses query-string text into v. See Value.Into for the accepted
// targets. When Prefix is set only the mapping below it is stored.
func (c *Codec) Decode(data []byte, v any) error {
	value, err := Decode(string(data))
	if err != nil {
		return err
	}
	if c.Prefix != "" {
		value = value.Lookup(c.Prefix)
	}
	return value.Into(v)
}

// Transcode decodes data with from and re-encodes the resulting String
// Object with to.
func Transcode(data []byte, from, to Encoder) ([]byte, error) {
	var v *Value
	if err := from.Decode(data, &v); err != nil {
		return nil, fmt.Errorf("transcode: decode: %w", err)
	}
	out, err := to.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("transcode: encode: %w", err)
	}
	return out, nil
}
