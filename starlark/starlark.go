// Package starlark bridges template values and Starlark: render contexts
// can be seeded from the globals of an executed Starlark file, and Starlark
// functions can be installed as template filters.
package starlark

import (
	"fmt"
	"math"

	"github.com/fluidlang/fluid"
	"go.starlark.net/starlark"
)

// ToStarlark converts a template value to its Starlark counterpart.
// Numbers holding integral values become Starlark ints. Kinds without a
// counterpart fall back to their string form.
func ToStarlark(val fluid.Value) starlark.Value {
	if val == nil {
		return starlark.None
	}
	switch v := val.(type) {
	case fluid.NilValue:
		return starlark.None
	case fluid.BoolValue:
		return starlark.Bool(bool(v))
	case fluid.NumValue:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return starlark.MakeInt64(int64(f))
		}
		return starlark.Float(f)
	case fluid.StrValue:
		return starlark.String(string(v))
	case fluid.ArrayValue:
		items := make([]starlark.Value, len(v))
		for i, item := range v {
			items[i] = ToStarlark(item)
		}
		return starlark.NewList(items)
	default:
		return starlark.String(val.String())
	}
}

// FromStarlark converts a Starlark value to a template value. Lists and
// tuples both become arrays. Dicts and other kinds have no counterpart in
// the value model and flatten to their string form.
func FromStarlark(val starlark.Value) fluid.Value {
	if val == nil || val == starlark.None {
		return fluid.NilValue{}
	}
	switch v := val.(type) {
	case starlark.Bool:
		return fluid.BoolValue(bool(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return fluid.NumValue(float64(i))
		}
		// Out of int64 range, keep the digits readable.
		return fluid.StrValue(v.String())
	case starlark.Float:
		return fluid.NumValue(float64(v))
	case starlark.String:
		return fluid.StrValue(string(v))
	case starlark.Tuple:
		arr := make(fluid.ArrayValue, len(v))
		for i, item := range v {
			arr[i] = FromStarlark(item)
		}
		return arr
	case *starlark.List:
		arr := make(fluid.ArrayValue, v.Len())
		for i := 0; i < v.Len(); i++ {
			arr[i] = FromStarlark(v.Index(i))
		}
		return arr
	default:
		return fluid.StrValue(val.String())
	}
}

// Globals builds a render context from executed Starlark globals, one
// variable per binding. Built-in filters come pre-installed as usual.
func Globals(globals starlark.StringDict) *fluid.Context {
	ctx := fluid.NewContext()
	for name, v := range globals {
		ctx.Set(name, FromStarlark(v))
	}
	return ctx
}

// Filter adapts a Starlark callable into a template filter. The filter
// input arrives as the first positional argument with the filter arguments
// after it. The callable runs on thread, so concurrent renders need their
// own threads.
func Filter(thread *starlark.Thread, fn starlark.Callable) fluid.FilterFunc {
	return func(input fluid.Value, args []fluid.Value) (fluid.Value, error) {
		callArgs := make(starlark.Tuple, 0, len(args)+1)
		callArgs = append(callArgs, ToStarlark(input))
		for _, a := range args {
			callArgs = append(callArgs, ToStarlark(a))
		}
		out, err := starlark.Call(thread, fn, callArgs, nil)
		if err != nil {
			return nil, fmt.Errorf("calling %s: %w", fn.Name(), err)
		}
		return FromStarlark(out), nil
	}
}

// InstallFilters installs every callable global as a filter on ctx, keyed
// by its binding name. Non-callable globals are skipped.
func InstallFilters(ctx *fluid.Context, thread *starlark.Thread, globals starlark.StringDict) {
	for name, v := range globals {
		if fn, ok := v.(starlark.Callable); ok {
			ctx.SetFilter(name, Filter(thread, fn))
		}
	}
}
