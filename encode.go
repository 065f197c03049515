package qso

import (
	"fmt"
	"strings"
)

// Encode renders a String Object as query-string text. Mapping keys become
// dotted paths, sequence elements become repeated keys, and a root scalar
// is written bare. The absent value encodes to "".
//
// A root mapping key "" has no prefix to write, so its scalar child is
// written as a bare token and decodes back as a root scalar.
func Encode(v *Value) (string, error) {
	return encode(v, "", false)
}

// EncodePrefixed is like Encode but nests every key below prefix. A root
// scalar is written as prefix=value.
func EncodePrefixed(v *Value, prefix string) (string, error) {
	return encode(v, prefix, false)
}

// Marshal normalizes raw into a String Object and encodes it. Leaves that
// have no string form are coerced or dropped.
func Marshal(raw any) (string, error) {
	v, err := Normalize(raw, false)
	if err != nil {
		return "", err
	}
	return Encode(v)
}

// MarshalStrict is like Marshal but fails on leaves that have no string form.
func MarshalStrict(raw any) (string, error) {
	v, err := Normalize(raw, true)
	if err != nil {
		return "", err
	}
	return Encode(v)
}

func encode(v *Value, prefix string, insideSequence bool) (string, error) {
	switch v.Kind() {
	case KindAbsent:
		return "", nil

	case KindScalar:
		if prefix == "" {
			return Escape(v.str), nil
		}
		return Escape(prefix) + "=" + Escape(v.str), nil

	case KindSequence:
		if insideSequence {
			return "", fmt.Errorf("%w: sequence nested in sequence at %q", ErrInvalidEncodableValue, prefix)
		}
		segments := make([]string, 0, len(v.items))
		for _, item := range v.items {
			if item.IsAbsent() {
				continue
			}
			s, err := encode(item, prefix, true)
			if err != nil {
				return "", err
			}
			segments = append(segments, s)
		}
		return strings.Join(segments, "&"), nil

	case KindMapping:
		if insideSequence {
			return "", fmt.Errorf("%w: mapping nested in sequence at %q", ErrInvalidEncodableValue, prefix)
		}
		segments := make([]string, 0, len(v.keys))
		for _, key := range v.keys {
			childPrefix := key
			if prefix != "" {
				childPrefix = prefix + PathSeparator + key
			}
			s, err := encode(v.props[key], childPrefix, insideSequence)
			if err != nil {
				return "", err
			}
			if s != "" {
				segments = append(segments, s)
			}
		}
		return strings.Join(segments, "&"), nil
	}

	return "", fmt.Errorf("%w: unknown kind %d", ErrInvalidEncodableValue, v.Kind())
}
