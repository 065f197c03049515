package qso

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

var (
	_ msgpack.CustomEncoder = (*Value)(nil)
	_ msgpack.CustomDecoder = (*Value)(nil)
)

// EncodeMsgpack writes v as MessagePack. Mapping keys keep their insertion
// order.
func (v *Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.Kind() {
	case KindScalar:
		return enc.EncodeString(v.str)
	case KindSequence:
		if err := enc.EncodeArrayLen(len(v.items)); err != nil {
			return err
		}
		for _, item := range v.items {
			if err := item.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindMapping:
		if err := enc.EncodeMapLen(len(v.keys)); err != nil {
			return err
		}
		for _, key := range v.keys {
			if err := enc.EncodeString(key); err != nil {
				return err
			}
			if err := v.props[key].EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	default:
		return enc.EncodeNil()
	}
}

// DecodeMsgpack reads a MessagePack value into v, keeping map key order.
// Other scalar types are normalized to their text form.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	parsed, err := readMsgpack(dec)
	if err != nil {
		return err
	}
	if parsed == nil {
		*v = Value{}
		return nil
	}
	*v = *parsed
	return nil
}

func readMsgpack(dec *msgpack.Decoder) (*Value, error) {
	code, err := dec.PeekCode()
	if err != nil {
		return nil, err
	}

	switch {
	case code == msgpcode.Nil:
		return nil, dec.DecodeNil()

	case msgpcode.IsString(code) || msgpcode.IsBin(code):
		s, err := dec.DecodeString()
		if err != nil {
			return nil, err
		}
		return Scalar(s), nil

	case msgpcode.IsFixedArray(code) || code == msgpcode.Array16 || code == msgpcode.Array32:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return nil, err
		}
		seq := Sequence()
		for i := 0; i < n; i++ {
			item, err := readMsgpack(dec)
			if err != nil {
				return nil, err
			}
			seq.Append(item)
		}
		return seq, nil

	case msgpcode.IsFixedMap(code) || code == msgpcode.Map16 || code == msgpcode.Map32:
		n, err := dec.DecodeMapLen()
		if err != nil {
			return nil, err
		}
		m := Mapping()
		for i := 0; i < n; i++ {
			key, err := dec.DecodeString()
			if err != nil {
				return nil, fmt.Errorf("qso: msgpack map key: %w", err)
			}
			child, err := readMsgpack(dec)
			if err != nil {
				return nil, err
			}
			m.Set(key, child)
		}
		return m, nil
	}

	raw, err := dec.DecodeInterface()
	if err != nil {
		return nil, err
	}
	return Normalize(raw, false)
}
