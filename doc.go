// Package qso converts between query-string text and String Objects: trees
// of string scalars, sequences and insertion-ordered mappings.
//
// Nested mappings are written as dotted keys and sequences as repeated keys:
//
//	v, _ := qso.Decode("user.name=ann&user.langs=en&user.langs=de")
//	v.Lookup("user.langs").Len() // 2
//
//	text, _ := qso.Marshal(map[string]any{"page": 2, "tags": []string{"a", "b"}})
//	// page=2&tags=a&tags=b
package qso
