package qso

import (
	"slices"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	// KindAbsent is the kind of a nil *Value and of the zero Value.
	KindAbsent Kind = iota
	// KindScalar is a string leaf.
	KindScalar
	// KindSequence is an ordered list of values.
	KindSequence
	// KindMapping is a set of keyed values kept in insertion order.
	KindMapping
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Value is a String Object node: a scalar string, a sequence, or a mapping.
// A nil *Value is the absent value.
type Value struct {
	kind  Kind
	str   string
	items []*Value
	keys  []string
	props map[string]*Value
}

// Entry is a key/value pair of a mapping.
type Entry struct {
	Key   string
	Value *Value
}

// Scalar creates a string leaf.
func Scalar(s string) *Value {
	return &Value{kind: KindScalar, str: s}
}

// Sequence creates a sequence holding items.
func Sequence(items ...*Value) *Value {
	return &Value{kind: KindSequence, items: items}
}

// Strings creates a sequence of scalars.
func Strings(values ...string) *Value {
	items := make([]*Value, len(values))
	for i, s := range values {
		items[i] = Scalar(s)
	}
	return &Value{kind: KindSequence, items: items}
}

// Mapping creates a mapping from entries. Later entries replace earlier
// entries with the same key.
func Mapping(entries ...Entry) *Value {
	v := &Value{kind: KindMapping, props: make(map[string]*Value, len(entries))}
	for _, e := range entries {
		v.Set(e.Key, e.Value)
	}
	return v
}

// Kind returns the variant held by v.
func (v *Value) Kind() Kind {
	if v == nil {
		return KindAbsent
	}
	return v.kind
}

// IsAbsent reports whether v is the absent value.
func (v *Value) IsAbsent() bool {
	return v.Kind() == KindAbsent
}

// Str returns the string of a scalar, or "" for any other kind.
func (v *Value) Str() string {
	if v.Kind() != KindScalar {
		return ""
	}
	return v.str
}

// Items returns the elements of a sequence. The slice is shared with v.
func (v *Value) Items() []*Value {
	if v.Kind() != KindSequence {
		return nil
	}
	return v.items
}

// Len returns the number of elements of a sequence or entries of a mapping.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindSequence:
		return len(v.items)
	case KindMapping:
		return len(v.keys)
	default:
		return 0
	}
}

// Keys returns the mapping keys in insertion order.
func (v *Value) Keys() []string {
	if v.Kind() != KindMapping {
		return nil
	}
	return slices.Clone(v.keys)
}

// Get returns the value stored under key, or nil.
func (v *Value) Get(key string) *Value {
	if v.Kind() != KindMapping {
		return nil
	}
	return v.props[key]
}

// Has reports whether a mapping contains key.
func (v *Value) Has(key string) bool {
	if v.Kind() != KindMapping {
		return false
	}
	_, ok := v.props[key]
	return ok
}

// Set stores child under key. A new key is appended to the key order, an
// existing key keeps its position. Set is a no-op unless v is a mapping.
func (v *Value) Set(key string, child *Value) {
	if v.Kind() != KindMapping {
		return
	}
	if v.props == nil {
		v.props = make(map[string]*Value)
	}
	if _, ok := v.props[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.props[key] = child
}

// Delete removes key from a mapping.
func (v *Value) Delete(key string) {
	if !v.Has(key) {
		return
	}
	delete(v.props, key)
	v.keys = slices.DeleteFunc(v.keys, func(k string) bool { return k == key })
}

// Append adds items to the end of a sequence in place.
func (v *Value) Append(items ...*Value) {
	if v.Kind() != KindSequence {
		return
	}
	v.items = append(v.items, items...)
}

// Entries returns the mapping entries in insertion order.
func (v *Value) Entries() []Entry {
	if v.Kind() != KindMapping {
		return nil
	}
	entries := make([]Entry, len(v.keys))
	for i, k := range v.keys {
		entries[i] = Entry{Key: k, Value: v.props[k]}
	}
	return entries
}

// Equal reports whether v and o hold the same data. Mapping key order is
// not significant.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindAbsent:
		return true
	case KindScalar:
		return v.str == o.str
	case KindSequence:
		return slices.EqualFunc(v.items, o.items, (*Value).Equal)
	case KindMapping:
		if len(v.keys) != len(o.keys) {
			return false
		}
		for _, k := range v.keys {
			other, ok := o.props[k]
			if !ok || !v.props[k].Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	switch v.Kind() {
	case KindScalar:
		return Scalar(v.str)
	case KindSequence:
		items := make([]*Value, len(v.items))
		for i, item := range v.items {
			items[i] = item.Clone()
		}
		return Sequence(items...)
	case KindMapping:
		c := Mapping()
		for _, k := range v.keys {
			c.Set(k, v.props[k].Clone())
		}
		return c
	default:
		return nil
	}
}

// Interface converts v into plain Go values: string, []any,
// map[string]any, or nil for the absent value.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindScalar:
		return v.str
	case KindSequence:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.Interface()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			out[k] = v.props[k].Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders v as compact JSON.
func (v *Value) String() string {
	b, err := v.MarshalJSON()
	if err != nil {
		return "<" + v.Kind().String() + ">"
	}
	return string(b)
}
