package qso

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/go-viper/mapstructure/v2"
)

// Into stores v in out, which must be a non-nil pointer. A *Value target
// receives a copy of v, a *any target receives v.Interface(), and any other
// target is filled field by field using the qs struct tag.
//
// Scalars are converted weakly: "5" fills an int, "true" a bool, and a
// single scalar fills a one-element slice, so a key that appeared once in a
// query string still binds to a slice field.
func (v *Value) Into(out any) error {
	switch t := out.(type) {
	case *Value:
		if t == nil {
			return fmt.Errorf("qso: Into(nil *Value)")
		}
		if v == nil {
			*t = Value{}
			return nil
		}
		*t = *v.Clone()
		return nil
	case **Value:
		if t == nil {
			return fmt.Errorf("qso: Into(nil **Value)")
		}
		*t = v.Clone()
		return nil
	case *any:
		*t = v.Interface()
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		WeaklyTypedInput: true,
		Result:           out,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(DateLayout),
			mapstructure.StringToTimeDurationHookFunc(),
			stringToRegexpHookFunc(),
		),
	})
	if err != nil {
		return err
	}
	return decoder.Decode(v.Interface())
}

func stringToRegexpHookFunc() mapstructure.DecodeHookFuncType {
	regexpType := reflect.TypeFor[regexp.Regexp]()
	return func(from reflect.Type, to reflect.Type, data any) (any, error) {
		if from.Kind() != reflect.String {
			return data, nil
		}
		if to != regexpType && to != reflect.PointerTo(regexpType) {
			return data, nil
		}
		re, err := regexp.Compile(data.(string))
		if err != nil {
			return nil, err
		}
		if to == regexpType {
			return *re, nil
		}
		return re, nil
	}
}

