package fluid

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// FilterFunc transforms an interpolated value. A filter receives the current
// pipeline value and any literal arguments from the template (the parts
// after a colon), and returns the transformed value or an error. Filters are
// looked up by name on the Context at render time.
type FilterFunc func(input Value, args []Value) (Value, error)

// FilterErrorKind classifies why a built-in filter rejected its input.
type FilterErrorKind int

const (
	// FilterInvalidType: the input value has a variant the filter cannot
	// work with.
	FilterInvalidType FilterErrorKind = iota
	// FilterInvalidArgumentCount: the wrong number of arguments was given.
	FilterInvalidArgumentCount
	// FilterInvalidArgument: an argument has the wrong variant or content.
	FilterInvalidArgument
)

// FilterError is the error returned by the built-in filters. Custom filters
// may return any error; the renderer wraps either kind into a RenderError,
// so errors.As can recover a FilterError from a failed render.
type FilterError struct {
	Kind FilterErrorKind
	Msg  string
}

func (e *FilterError) Error() string { return e.Msg }

func filterTypeErrorf(format string, args ...any) error {
	return &FilterError{Kind: FilterInvalidType, Msg: fmt.Sprintf(format, args...)}
}

func filterArgCountErrorf(format string, args ...any) error {
	return &FilterError{Kind: FilterInvalidArgumentCount, Msg: fmt.Sprintf(format, args...)}
}

func filterArgErrorf(format string, args ...any) error {
	return &FilterError{Kind: FilterInvalidArgument, Msg: fmt.Sprintf(format, args...)}
}

func wantString(v Value) (string, error) {
	s, ok := v.(StrValue)
	if !ok {
		return "", filterTypeErrorf("expected a string, got %s", describeValue(v))
	}
	return string(s), nil
}

func wantArray(v Value) (ArrayValue, error) {
	a, ok := v.(ArrayValue)
	if !ok {
		return nil, filterTypeErrorf("expected an array, got %s", describeValue(v))
	}
	return a, nil
}

func wantNoArgs(args []Value) error {
	if len(args) != 0 {
		return filterArgCountErrorf("expected no arguments, got %d", len(args))
	}
	return nil
}

// Builtins returns a fresh registry holding the standard filters. NewContext
// installs these automatically; SetFilter can overwrite or extend them.
func Builtins() map[string]FilterFunc {
	return map[string]FilterFunc{
		"upcase":     upcaseFilter,
		"downcase":   downcaseFilter,
		"capitalize": capitalizeFilter,
		"strip":      stripFilter,
		"size":       sizeFilter,
		"first":      firstFilter,
		"last":       lastFilter,
		"join":       joinFilter,
		"replace":    replaceFilter,
		"default":    defaultFilter,
	}
}

func upcaseFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	s, err := wantString(input)
	if err != nil {
		return nil, err
	}
	return StrValue(strings.ToUpper(s)), nil
}

func downcaseFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	s, err := wantString(input)
	if err != nil {
		return nil, err
	}
	return StrValue(strings.ToLower(s)), nil
}

func capitalizeFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	s, err := wantString(input)
	if err != nil {
		return nil, err
	}
	if s == "" {
		return input, nil
	}
	r, size := utf8.DecodeRuneInString(s)
	return StrValue(string(unicode.ToUpper(r)) + s[size:]), nil
}

func stripFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	s, err := wantString(input)
	if err != nil {
		return nil, err
	}
	return StrValue(strings.TrimSpace(s)), nil
}

func sizeFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	switch t := input.(type) {
	case StrValue:
		return NumValue(utf8.RuneCountInString(string(t))), nil
	case ArrayValue:
		return NumValue(len(t)), nil
	}
	return nil, filterTypeErrorf("expected a string or array, got %s", describeValue(input))
}

func firstFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	a, err := wantArray(input)
	if err != nil {
		return nil, err
	}
	if len(a) == 0 {
		return NilValue{}, nil
	}
	return a[0], nil
}

func lastFilter(input Value, args []Value) (Value, error) {
	if err := wantNoArgs(args); err != nil {
		return nil, err
	}
	a, err := wantArray(input)
	if err != nil {
		return nil, err
	}
	if len(a) == 0 {
		return NilValue{}, nil
	}
	return a[len(a)-1], nil
}

func joinFilter(input Value, args []Value) (Value, error) {
	a, err := wantArray(input)
	if err != nil {
		return nil, err
	}
	sep := " "
	switch len(args) {
	case 0:
	case 1:
		s, ok := args[0].(StrValue)
		if !ok {
			return nil, filterArgErrorf("separator must be a string, got %s", describeValue(args[0]))
		}
		sep = string(s)
	default:
		return nil, filterArgCountErrorf("expected at most one argument, got %d", len(args))
	}
	parts := make([]string, len(a))
	for i, v := range a {
		parts[i] = v.String()
	}
	return StrValue(strings.Join(parts, sep)), nil
}

func replaceFilter(input Value, args []Value) (Value, error) {
	s, err := wantString(input)
	if err != nil {
		return nil, err
	}
	if len(args) != 2 {
		return nil, filterArgCountErrorf("expected two arguments, got %d", len(args))
	}
	old, ok := args[0].(StrValue)
	if !ok {
		return nil, filterArgErrorf("search term must be a string, got %s", describeValue(args[0]))
	}
	repl, ok := args[1].(StrValue)
	if !ok {
		return nil, filterArgErrorf("replacement must be a string, got %s", describeValue(args[1]))
	}
	return StrValue(strings.ReplaceAll(s, string(old), string(repl))), nil
}

// defaultFilter substitutes its argument when the input is nil, false, an
// empty string, or an empty array.
func defaultFilter(input Value, args []Value) (Value, error) {
	if len(args) != 1 {
		return nil, filterArgCountErrorf("expected one argument, got %d", len(args))
	}
	switch t := input.(type) {
	case NilValue:
		return args[0], nil
	case BoolValue:
		if !t {
			return args[0], nil
		}
	case StrValue:
		if t == "" {
			return args[0], nil
		}
	case ArrayValue:
		if len(t) == 0 {
			return args[0], nil
		}
	}
	return input, nil
}
