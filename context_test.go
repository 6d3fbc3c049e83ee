package fluid

import "testing"

func TestContextGetSet(t *testing.T) {
	ctx := NewContext()
	if _, ok := ctx.Get("missing"); ok {
		t.Fatalf("unset name should not resolve")
	}
	ctx.Set("n", NumValue(1))
	ctx.Set("n", StrValue("two"))
	v, ok := ctx.Get("n")
	if !ok || v.String() != "two" {
		t.Fatalf("overwrite failed: got %v, %v", v, ok)
	}
}

func TestContextStoresCopies(t *testing.T) {
	arr := ArrayValue{StrValue("a")}
	ctx := NewContext()
	ctx.Set("xs", arr)
	arr[0] = StrValue("b")
	v, _ := ctx.Get("xs")
	if v.String() != "a" {
		t.Fatalf("context shares storage with the caller: %q", v.String())
	}
}

func TestContextSetNil(t *testing.T) {
	ctx := NewContext()
	ctx.Set("x", nil)
	v, ok := ctx.Get("x")
	if !ok {
		t.Fatalf("a nil binding should still resolve")
	}
	if _, isNil := v.(NilValue); !isNil {
		t.Fatalf("want NilValue, got %s", describeValue(v))
	}
}

func TestContextFilters(t *testing.T) {
	ctx := NewContext()
	if _, ok := ctx.Filter("upcase"); !ok {
		t.Fatalf("NewContext should install the builtin filters")
	}
	ctx.SetFilter("upcase", func(input Value, args []Value) (Value, error) {
		return StrValue("custom"), nil
	})
	fn, _ := ctx.Filter("upcase")
	out, err := fn(StrValue("x"), nil)
	if err != nil || out.String() != "custom" {
		t.Fatalf("filter overwrite failed: %v, %v", out, err)
	}
	if _, ok := ctx.Filter("nope"); ok {
		t.Fatalf("unknown filter should not resolve")
	}
}

func TestZeroValueContext(t *testing.T) {
	var ctx Context
	ctx.Set("a", NumValue(1))
	if v, ok := ctx.Get("a"); !ok || v.String() != "1" {
		t.Fatalf("zero value context should accept bindings")
	}
	if _, ok := ctx.Filter("upcase"); ok {
		t.Fatalf("zero value context should have no builtin filters")
	}
}
