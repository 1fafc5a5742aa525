package registry

import (
	"fmt"
	"math"
	"strconv"
)

// Kind enumerates the value types an entry can hold.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindBool
	KindInt
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	default:
		return "invalid"
	}
}

// Value is a single entry value. The zero Value is invalid.
type Value struct {
	kind Kind
	str  string
	b    bool
	i    int64
}

// String returns a string entry value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool returns a boolean entry value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer entry value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// ValueOf converts a decoded scalar into a Value. Integral floats are accepted
// because some decoders produce them for plain numbers.
func ValueOf(raw any) (Value, error) {
	switch v := raw.(type) {
	case Value:
		return v, nil
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case int:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return Value{}, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedValue, v)
		}
		return Int(int64(v)), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt64 || v < math.MinInt64 {
			return Value{}, fmt.Errorf("%w: non-integral number %v", ErrUnsupportedValue, v)
		}
		return Int(int64(v)), nil
	default:
		return Value{}, fmt.Errorf("%w: %T", ErrUnsupportedValue, raw)
	}
}

// Kind reports the type held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsValid reports whether v holds a value.
func (v Value) IsValid() bool {
	return v.kind != KindInvalid
}

// AsString returns the string held by v.
func (v Value) AsString() (string, bool) {
	return v.str, v.kind == KindString
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Interface returns the underlying Go value, or nil for the zero Value.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	default:
		return nil
	}
}

// Text renders v as plain text, suitable for environment variables.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) String() string {
	if v.kind == KindString {
		return strconv.Quote(v.str)
	}
	return v.Text()
}
