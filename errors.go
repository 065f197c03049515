package qso

import "errors"

var (
	// ErrInvalidQueryString is returned when query-string text cannot be
	// decoded: a segment holds more than one '=', bare tokens and key/value
	// pairs are mixed, an escape is malformed, or dotted keys collide.
	ErrInvalidQueryString = errors.New("invalid query string")

	// ErrInvalidEncodableValue is returned when a value cannot be encoded as
	// query-string text, such as a sequence nested directly inside a sequence.
	ErrInvalidEncodableValue = errors.New("value must be a query-string-encodable structured value")

	// ErrPathConflict is returned by SetPath when a dotted path runs through
	// a value that is not a mapping.
	ErrPathConflict = errors.New("path conflicts with an existing value")

	// ErrUnsupportedType is returned by strict normalization for Go values
	// that have no String Object form.
	ErrUnsupportedType = errors.New("unsupported type")
)
