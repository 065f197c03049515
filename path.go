package qso

import (
	"fmt"
	"strings"
)

// PathSeparator separates the mapping keys of a dotted path.
const PathSeparator = "."

// Lookup returns the value at the dotted path below v. It returns nil when a
// segment is missing or runs through a value that is not a mapping.
func (v *Value) Lookup(path string) *Value {
	cur := v
	for _, key := range strings.Split(path, PathSeparator) {
		if cur.Kind() != KindMapping {
			return nil
		}
		cur = cur.props[key]
	}
	return cur
}

// SetPath stores child at the dotted path below v, creating intermediate
// mappings as needed. When the target already holds a sequence and child is
// a scalar, child is appended to that sequence in place. Any other existing
// target is replaced.
func (v *Value) SetPath(path string, child *Value) error {
	if v.Kind() != KindMapping {
		return fmt.Errorf("%w: %q set on a %s root", ErrPathConflict, path, v.Kind())
	}

	keys := strings.Split(path, PathSeparator)
	cur := v
	for i, key := range keys[:len(keys)-1] {
		next, ok := cur.props[key]
		if !ok || next == nil {
			next = Mapping()
			cur.Set(key, next)
		}
		if next.Kind() != KindMapping {
			at := strings.Join(keys[:i+1], PathSeparator)
			return fmt.Errorf("%w: %q holds a %s", ErrPathConflict, at, next.Kind())
		}
		cur = next
	}

	last := keys[len(keys)-1]
	if existing := cur.props[last]; existing.Kind() == KindSequence && child.Kind() == KindScalar {
		existing.Append(child)
		return nil
	}
	cur.Set(last, child)
	return nil
}
