package qso

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the text form of time.Time leaves: UTC with milliseconds.
const DateLayout = "2006-01-02T15:04:05.000Z"

// TagName is the struct tag read by Normalize and Value.Into.
const TagName = "qs"

const maxDepth = 64

var (
	valueType         = reflect.TypeFor[Value]()
	timeType          = reflect.TypeFor[time.Time]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Normalize converts an arbitrary Go value into a String Object. Numbers
// become decimal text, booleans "true" or "false", times DateLayout text and
// regular expressions their pattern. Maps with string keys and structs
// become mappings, slices and arrays become sequences, and nil becomes the
// absent value.
//
// In strict mode a leaf with no string form fails with ErrUnsupportedType.
// Otherwise complex numbers and fmt.Stringer values are formatted, and
// channels and functions are dropped.
func Normalize(raw any, strict bool) (*Value, error) {
	n := normalizer{strict: strict}
	return n.normalize(reflect.ValueOf(raw), 0)
}

type normalizer struct {
	strict bool
}

func (n normalizer) normalize(rv reflect.Value, depth int) (*Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrInvalidEncodableValue, maxDepth)
	}
	if !rv.IsValid() {
		return nil, nil
	}

	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type() == reflect.PointerTo(valueType) {
			return rv.Interface().(*Value), nil
		}
		rv = rv.Elem()
	}

	switch v := rv.Interface().(type) {
	case Value:
		return &v, nil
	case string:
		return Scalar(v), nil
	case json.Number:
		return Scalar(formatJSONNumber(v)), nil
	case time.Time:
		return Scalar(v.UTC().Format(DateLayout)), nil
	case time.Duration:
		return Scalar(v.String()), nil
	case regexp.Regexp:
		return Scalar(v.String()), nil
	case []byte:
		return Scalar(string(v)), nil
	}

	if rv.Type().Implements(textMarshalerType) {
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return Scalar(string(text)), nil
	}
	if rv.CanAddr() && reflect.PointerTo(rv.Type()).Implements(textMarshalerType) {
		text, err := rv.Addr().Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, err
		}
		return Scalar(string(text)), nil
	}

	switch rv.Kind() {
	case reflect.String:
		return Scalar(rv.String()), nil
	case reflect.Bool:
		return Scalar(strconv.FormatBool(rv.Bool())), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Scalar(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Scalar(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32:
		return Scalar(FormatNumber(float64(float32(rv.Float())), 32)), nil
	case reflect.Float64:
		return Scalar(FormatNumber(rv.Float(), 64)), nil
	case reflect.Slice, reflect.Array:
		return n.normalizeList(rv, depth)
	case reflect.Map:
		return n.normalizeMap(rv, depth)
	case reflect.Struct:
		return n.normalizeStruct(rv, depth)
	}

	return n.unsupported(rv)
}

func (n normalizer) normalizeList(rv reflect.Value, depth int) (*Value, error) {
	if rv.Kind() == reflect.Slice && rv.IsNil() {
		return nil, nil
	}
	items := make([]*Value, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		item, err := n.normalize(rv.Index(i), depth+1)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return Sequence(items...), nil
}

func (n normalizer) normalizeMap(rv reflect.Value, depth int) (*Value, error) {
	if rv.IsNil() {
		return nil, nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		if n.strict {
			return nil, fmt.Errorf("%w: %w: map key type %s", ErrInvalidEncodableValue, ErrUnsupportedType, rv.Type().Key())
		}
		return nil, nil
	}

	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})

	out := Mapping()
	for _, key := range keys {
		child, err := n.normalize(rv.MapIndex(key), depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(key.String(), child)
	}
	return out, nil
}

func (n normalizer) normalizeStruct(rv reflect.Value, depth int) (*Value, error) {
	out := Mapping()
	if err := n.collectFields(out, rv, depth); err != nil {
		return nil, err
	}
	return out, nil
}

func (n normalizer) collectFields(out *Value, rv reflect.Value, depth int) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		name, omitEmpty, skip := parseTag(field)
		if skip {
			continue
		}

		fv := rv.Field(i)
		if field.Anonymous && name == "" && field.IsExported() {
			embedded := fv
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct && embedded.Type() != timeType {
				fv = embedded
				if err := n.collectFields(out, fv, depth+1); err != nil {
					return err
				}
				continue
			}
		}
		if !field.IsExported() {
			continue
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		if name == "" {
			name = field.Name
		}

		child, err := n.normalize(fv, depth+1)
		if err != nil {
			return fmt.Errorf("%s: %w", field.Name, err)
		}
		out.Set(name, child)
	}
	return nil
}

func (n normalizer) unsupported(rv reflect.Value) (*Value, error) {
	if n.strict {
		return nil, fmt.Errorf("%w: %w: %s", ErrInvalidEncodableValue, ErrUnsupportedType, rv.Type())
	}
	if s, ok := rv.Interface().(fmt.Stringer); ok {
		return Scalar(s.String()), nil
	}
	switch rv.Kind() {
	case reflect.Complex64, reflect.Complex128:
		return Scalar(fmt.Sprint(rv.Interface())), nil
	}
	return nil, nil
}

// parseTag reads the qs tag of a struct field.
func parseTag(field reflect.StructField) (name string, omitEmpty, skip bool) {
	tag := field.Tag.Get(TagName)
	if tag == "-" {
		return "", false, true
	}
	name, opts, _ := strings.Cut(tag, ",")
	for opt := range strings.SplitSeq(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty, false
}

// FormatNumber renders f the way JavaScript renders numbers as text:
// shortest round-trip digits, exponent notation outside [1e-6, 1e21), and
// NaN, Infinity and -Infinity for the special values.
func FormatNumber(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'e', -1, bitSize)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	exp = strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + exp
}
