// Package cbor provides a CBOR encoder for String Objects using Core
// Deterministic Encoding (RFC 8949 §4.2): the same String Object always
// produces identical bytes.
package cbor

import (
	"reflect"

	"github.com/fxamacker/cbor/v2"

	"github.com/RobertWHurst/qso"
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("cbor: encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		// String Objects only have string keys.
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("cbor: decoder initialization failed: " + err.Error())
	}
}

// Encoder implements qso.Encoder using CBOR serialization. Mapping key order
// is not preserved; deterministic encoding sorts keys.
type Encoder struct {
	// Strict makes Encode fail on values with no String Object form.
	Strict bool
}

var _ qso.Encoder = &Encoder{}

// Encode normalizes v and serializes it to CBOR bytes.
func (e *Encoder) Encode(v any) ([]byte, error) {
	value, err := qso.Normalize(v, e.Strict)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(value.Interface())
}

// Decode deserializes CBOR bytes into v. Non-string leaves are normalized to
// their text form.
func (d *Encoder) Decode(data []byte, v any) error {
	var raw any
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := qso.Normalize(raw, false)
	if err != nil {
		return err
	}
	return value.Into(v)
}

// New creates a new CBOR encoder.
func New() *Encoder {
	return &Encoder{}
}
