// Package bind fills request-parameter structs from query strings.
//
// Binding runs in three steps: `default` tags are applied, the decoded
// query string is stored over them using `qs` tags, and the result is
// checked against `validate` tags.
//
//	type ListParams struct {
//		Page  int      `qs:"page" default:"1" validate:"gte=1"`
//		Sort  string   `qs:"sort" default:"name" validate:"oneof=name date"`
//		Tags  []string `qs:"tags"`
//	}
//
//	var p ListParams
//	err := bind.Query("page=2&tags=a&tags=b", &p)
package bind

import (
	"fmt"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"

	"github.com/RobertWHurst/qso"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Query decodes query-string text into out, which must be a pointer to a
// struct.
func Query(text string, out any) error {
	v, err := qso.Decode(text)
	if err != nil {
		return err
	}
	return Value(v, out)
}

// Value stores a decoded String Object into out, which must be a pointer to
// a struct.
func Value(v *qso.Value, out any) error {
	if err := defaults.Set(out); err != nil {
		return fmt.Errorf("bind: defaults: %w", err)
	}
	if v.Kind() != qso.KindAbsent && v.Kind() != qso.KindMapping {
		return fmt.Errorf("bind: query string decoded to a %s, want a mapping", v.Kind())
	}
	if err := v.Into(out); err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if err := validate.Struct(out); err != nil {
		return err
	}
	return nil
}
