package fluid

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Value is a runtime datum held by a Context and manipulated during
// rendering. The engine works with five variants: NilValue, BoolValue,
// NumValue, StrValue, and ArrayValue. Custom implementations are treated as
// opaque: they stringify and count as truthy, but cannot be compared or
// iterated.
type Value interface {
	// String returns the textual form used when the value is interpolated
	// into output.
	String() string

	// Truth reports whether the value counts as true in a condition. Only
	// nil and false are falsy; empty strings, zero, and empty arrays are
	// all truthy.
	Truth() bool

	// TypeName names the variant for diagnostics: "nil", "bool", "number",
	// "string", or "array".
	TypeName() string

	// Clone returns a copy sharing no mutable state with the receiver.
	Clone() Value
}

// NilValue is the absence of a value. Unset variables resolve to it.
type NilValue struct{}

func (NilValue) String() string   { return "" }
func (NilValue) Truth() bool      { return false }
func (NilValue) TypeName() string { return "nil" }
func (NilValue) Clone() Value     { return NilValue{} }

// BoolValue wraps a boolean.
type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b BoolValue) Truth() bool    { return bool(b) }
func (BoolValue) TypeName() string { return "bool" }
func (b BoolValue) Clone() Value   { return b }

// NumValue wraps a number. All numbers are float64; integral values
// stringify without a fractional part, so NumValue(22) renders as "22".
type NumValue float64

func (n NumValue) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}
func (n NumValue) Truth() bool    { return true }
func (NumValue) TypeName() string { return "number" }
func (n NumValue) Clone() Value   { return n }

// StrValue wraps a string.
type StrValue string

func (s StrValue) String() string { return string(s) }
func (s StrValue) Truth() bool    { return true }
func (StrValue) TypeName() string { return "string" }
func (s StrValue) Clone() Value   { return s }

// ArrayValue wraps an ordered, possibly heterogeneous sequence of values.
type ArrayValue []Value

func (a ArrayValue) String() string {
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return strings.Join(parts, " ")
}
func (a ArrayValue) Truth() bool    { return true }
func (ArrayValue) TypeName() string { return "array" }

// Clone copies the array and every element, so mutating the clone (or the
// original) never affects the other.
func (a ArrayValue) Clone() Value {
	out := make(ArrayValue, len(a))
	for i, v := range a {
		out[i] = v.Clone()
	}
	return out
}

// FromGo converts a native Go value into a Value. Numeric types map to
// NumValue, slices and arrays convert recursively, and anything without a
// variant of its own (maps, structs, channels) falls back to its fmt form.
func FromGo(v any) Value {
	if v == nil {
		return NilValue{}
	}
	switch t := v.(type) {
	case Value:
		return t
	case bool:
		return BoolValue(t)
	case string:
		return StrValue(t)
	case []byte:
		return StrValue(t)
	case int:
		return NumValue(t)
	case int32:
		return NumValue(t)
	case int64:
		return NumValue(t)
	case uint:
		return NumValue(t)
	case float32:
		return NumValue(t)
	case float64:
		return NumValue(t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make(ArrayValue, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, FromGo(rv.Index(i).Interface()))
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NilValue{}
		}
		return FromGo(rv.Elem().Interface())
	}
	return StrValue(fmt.Sprintf("%v", v))
}

// describeValue renders a value for error messages, naming both the variant
// and the content: `string "wat"`, `number 22`, `array (4 elements)`.
func describeValue(v Value) string {
	switch t := v.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		return "bool " + t.String()
	case NumValue:
		return "number " + t.String()
	case StrValue:
		return fmt.Sprintf("string %q", string(t))
	case ArrayValue:
		return fmt.Sprintf("array (%d elements)", len(t))
	default:
		return fmt.Sprintf("%s %q", v.TypeName(), v.String())
	}
}

// valueEq reports deep equality. Values of different variants are never
// equal to each other.
func valueEq(a, b Value) bool {
	switch x := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		y, ok := b.(BoolValue)
		return ok && x == y
	case NumValue:
		y, ok := b.(NumValue)
		return ok && x == y
	case StrValue:
		y, ok := b.(StrValue)
		return ok && x == y
	case ArrayValue:
		y, ok := b.(ArrayValue)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !valueEq(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// compareValues applies an ordered comparison. Numbers compare numerically
// and strings lexically; comparing anything else, or mixing the two, is a
// render error naming both operands.
func compareValues(a, b Value, op CompareOp) (bool, error) {
	if x, ok := a.(NumValue); ok {
		if y, ok := b.(NumValue); ok {
			return compareOrdered(float64(x), float64(y), op), nil
		}
	}
	if x, ok := a.(StrValue); ok {
		if y, ok := b.(StrValue); ok {
			return compareOrdered(string(x), string(y), op), nil
		}
	}
	return false, renderErrorf("cannot compare %s with %s", describeValue(a), describeValue(b))
}

func compareOrdered[T int | float64 | string](a, b T, op CompareOp) bool {
	switch op {
	case CompareLess:
		return a < b
	case CompareGreater:
		return a > b
	case CompareLessEqual:
		return a <= b
	case CompareGreaterEqual:
		return a >= b
	}
	return false
}

// valueContains implements the `contains` operator: substring match for
// strings, element membership for arrays.
func valueContains(haystack, needle Value) (bool, error) {
	switch h := haystack.(type) {
	case StrValue:
		n, ok := needle.(StrValue)
		if !ok {
			return false, renderErrorf("cannot search a string for %s", describeValue(needle))
		}
		return strings.Contains(string(h), string(n)), nil
	case ArrayValue:
		for _, v := range h {
			if valueEq(v, needle) {
				return true, nil
			}
		}
		return false, nil
	}
	return false, renderErrorf("%s does not support contains", describeValue(haystack))
}
