// Package protobuf provides a Protocol Buffers encoder for String Objects.
// String Objects are carried as google.protobuf.Value messages; any other
// proto.Message passed to Encode or Decode is serialized as is.
package protobuf

import (
	"fmt"
	"slices"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/RobertWHurst/qso"
)

// Encoder implements qso.Encoder using Protocol Buffers serialization.
type Encoder struct {
	// Strict makes Encode fail on values with no String Object form.
	Strict bool
}

var _ qso.Encoder = &Encoder{}

// Encode serializes v. A proto.Message is marshaled directly; anything else
// is normalized and marshaled as a structpb.Value.
func (e *Encoder) Encode(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		return proto.Marshal(m)
	}
	value, err := qso.Normalize(v, e.Strict)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(ToProto(value))
}

// Decode deserializes data into v. A proto.Message target is unmarshaled
// directly; any other target is read as a structpb.Value and stored with
// qso.Value.Into.
func (e *Encoder) Decode(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}
	var pv structpb.Value
	if err := proto.Unmarshal(data, &pv); err != nil {
		return err
	}
	value, err := FromProto(&pv)
	if err != nil {
		return err
	}
	return value.Into(v)
}

// New creates a new Protocol Buffers encoder.
func New() *Encoder {
	return &Encoder{}
}

// ToProto converts a String Object into a structpb.Value. The absent value
// becomes a null value.
func ToProto(v *qso.Value) *structpb.Value {
	switch v.Kind() {
	case qso.KindScalar:
		return structpb.NewStringValue(v.Str())
	case qso.KindSequence:
		items := v.Items()
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(items))}
		for i, item := range items {
			list.Values[i] = ToProto(item)
		}
		return structpb.NewListValue(list)
	case qso.KindMapping:
		fields := make(map[string]*structpb.Value, v.Len())
		for _, e := range v.Entries() {
			fields[e.Key] = ToProto(e.Value)
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields})
	default:
		return structpb.NewNullValue()
	}
}

// FromProto converts a structpb.Value into a String Object. Numbers and
// booleans become their text form and struct fields are read in key order.
func FromProto(pv *structpb.Value) (*qso.Value, error) {
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		return qso.Scalar(k.StringValue), nil
	case *structpb.Value_NumberValue:
		return qso.Scalar(qso.FormatNumber(k.NumberValue, 64)), nil
	case *structpb.Value_BoolValue:
		if k.BoolValue {
			return qso.Scalar("true"), nil
		}
		return qso.Scalar("false"), nil
	case *structpb.Value_ListValue:
		seq := qso.Sequence()
		for _, item := range k.ListValue.GetValues() {
			child, err := FromProto(item)
			if err != nil {
				return nil, err
			}
			seq.Append(child)
		}
		return seq, nil
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		m := qso.Mapping()
		for _, key := range keys {
			child, err := FromProto(fields[key])
			if err != nil {
				return nil, err
			}
			m.Set(key, child)
		}
		return m, nil
	}
	return nil, fmt.Errorf("protobuf: unsupported structpb kind %T", pv.GetKind())
}
