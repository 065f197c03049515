package qso

import (
	"fmt"
	"slices"
	"strings"
)

type pair struct {
	key   string
	value string
}

// Decode parses query-string text into a String Object. A single leading
// '?' is ignored. The result is
//   - an empty mapping for "",
//   - a scalar for a single bare token,
//   - a sequence when every segment is a bare token,
//   - a mapping when every segment is a key=value pair.
//
// Pairs are folded in key order: a key seen once decodes to a scalar, a key
// seen more than once decodes to a sequence of its values in text order.
func Decode(text string) (*Value, error) {
	text = strings.TrimPrefix(text, "?")

	segments := strings.Split(text, "&")
	if len(segments) == 1 {
		return decodeSingle(text)
	}

	var (
		tokens       []*Value
		pairs        []pair
		sawBareToken bool
		sawPair      bool
	)
	for _, segment := range segments {
		parts := strings.Split(segment, "=")
		switch len(parts) {
		case 1:
			token, err := Unescape(segment)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, Scalar(token))
			sawBareToken = true
		case 2:
			p, err := decodePair(parts[0], parts[1])
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, p)
			sawPair = true
		default:
			return nil, fmt.Errorf("%w: segment %q has more than one '='", ErrInvalidQueryString, segment)
		}
		if sawBareToken && sawPair {
			return nil, fmt.Errorf("%w: bare tokens mixed with key/value pairs", ErrInvalidQueryString)
		}
	}

	if sawBareToken {
		return Sequence(tokens...), nil
	}
	return fold(pairs)
}

// DecodeOptional decodes *text, passing a nil text through as a nil value.
func DecodeOptional(text *string) (*Value, error) {
	if text == nil {
		return nil, nil
	}
	return Decode(*text)
}

// Unmarshal decodes text and stores the result in out. See Value.Into.
func Unmarshal(text string, out any) error {
	v, err := Decode(text)
	if err != nil {
		return err
	}
	return v.Into(out)
}

func decodeSingle(text string) (*Value, error) {
	parts := strings.Split(text, "=")
	switch len(parts) {
	case 1:
		if text == "" {
			return Mapping(), nil
		}
		s, err := Unescape(text)
		if err != nil {
			return nil, err
		}
		return Scalar(s), nil
	case 2:
		p, err := decodePair(parts[0], parts[1])
		if err != nil {
			return nil, err
		}
		return fold([]pair{p})
	default:
		return nil, fmt.Errorf("%w: segment %q has more than one '='", ErrInvalidQueryString, text)
	}
}

func decodePair(rawKey, rawValue string) (pair, error) {
	key, err := Unescape(rawKey)
	if err != nil {
		return pair{}, err
	}
	value, err := Unescape(rawValue)
	if err != nil {
		return pair{}, err
	}
	return pair{key: key, value: value}, nil
}

// fold merges pairs into one mapping. Sorting first makes repeated keys
// adjacent; the stable sort keeps their values in text order.
func fold(pairs []pair) (*Value, error) {
	slices.SortStableFunc(pairs, func(a, b pair) int {
		return strings.Compare(a.key, b.key)
	})

	root := Mapping()
	for _, p := range pairs {
		var next *Value
		switch cur := root.Lookup(p.key); cur.Kind() {
		case KindAbsent, KindSequence:
			next = Scalar(p.value)
		case KindScalar:
			next = Strings(cur.Str(), p.value)
		default:
			return nil, fmt.Errorf("%w: %w: %q holds a %s", ErrInvalidQueryString, ErrPathConflict, p.key, cur.Kind())
		}
		if err := root.SetPath(p.key, next); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidQueryString, err)
		}
	}
	return root, nil
}
