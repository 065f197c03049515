// Package json provides a JSON encoder for String Objects.
// It uses Go's standard encoding/json package for serialization.
package json

import (
	"encoding/json"

	"github.com/RobertWHurst/qso"
)

// Encoder implements qso.Encoder using JSON serialization.
// Values are normalized first, so every leaf is written as a JSON string and
// the output has the same shape as the query-string form.
type Encoder struct {
	// Strict makes Encode fail on values with no String Object form.
	Strict bool
}

var _ qso.Encoder = &Encoder{}

// Encode normalizes v and serializes it to JSON bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	value, err := qso.Normalize(v, e.Strict)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(value)
}

// Decode deserializes JSON bytes into v. See qso.Value.Into for the
// accepted targets.
func (d *Encoder) Decode(data []byte, v any) error {
	var value qso.Value
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	return value.Into(v)
}

// New creates a new JSON encoder.
func New() *Encoder {
	return &Encoder{}
}
