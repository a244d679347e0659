package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind discriminates the closed set of primitive types a config field
// can hold.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
	KindBool   ValueKind = "bool"
)

// Value is a closed variant over the primitives a config field can hold.
// Exactly one of the payload fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsEmpty reports whether the value counts as "not provided" for required
// field checks: the empty string and a kind-less zero Value qualify. Zero
// and false are real values.
func (v Value) IsEmpty() bool {
	return v.Kind == "" || (v.Kind == KindString && v.Str == "")
}

// String renders the value for prompts and logs.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// Interface returns the underlying primitive.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	}
	return nil
}

// ValueFrom converts a decoded primitive (string, bool, or any numeric type)
// into a Value. It rejects everything outside the closed set.
func ValueFrom(raw any) (Value, error) {
	switch t := raw.(type) {
	case string:
		return StringValue(t), nil
	case bool:
		return BoolValue(t), nil
	case float64:
		return NumberValue(t), nil
	case float32:
		return NumberValue(float64(t)), nil
	case int:
		return NumberValue(float64(t)), nil
	case int64:
		return NumberValue(float64(t)), nil
	case uint64:
		return NumberValue(float64(t)), nil
	default:
		return Value{}, fmt.Errorf("unsupported config value type %T", raw)
	}
}

// MarshalJSON encodes the bare primitive, not the variant wrapper.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a bare JSON primitive into the variant.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	val, err := ValueFrom(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}

// MarshalYAML encodes the bare primitive for the config file.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}

// UnmarshalYAML decodes a bare YAML scalar into the variant.
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	val, err := ValueFrom(raw)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
