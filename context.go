package fluid

// Context is the runtime variable environment threaded through a render
// call. It is a single flat namespace: there is no scope stack, so a binding
// made inside a loop body stays visible after the loop finishes. A Context
// also carries the filter registry consulted by interpolation nodes.
//
// A Context is not safe for concurrent use. To render the same Template from
// several goroutines, give each render its own Context.
type Context struct {
	values  map[string]Value
	filters map[string]FilterFunc
}

// NewContext returns an empty variable environment with the built-in
// filters installed.
func NewContext() *Context {
	return &Context{
		values:  make(map[string]Value),
		filters: Builtins(),
	}
}

// Get looks up a variable. The second result is false when the name has
// never been set.
func (c *Context) Get(name string) (Value, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Set binds name to value, creating or overwriting unconditionally. The
// value is stored as a copy, so mutating an array after passing it in does
// not reach the context. A nil value binds Nil.
func (c *Context) Set(name string, value Value) {
	if value == nil {
		value = NilValue{}
	}
	if c.values == nil {
		c.values = make(map[string]Value)
	}
	c.values[name] = value.Clone()
}

// SetFilter installs or replaces a filter under the given name.
func (c *Context) SetFilter(name string, fn FilterFunc) {
	if c.filters == nil {
		c.filters = make(map[string]FilterFunc)
	}
	c.filters[name] = fn
}

// Filter looks up a filter by name.
func (c *Context) Filter(name string) (FilterFunc, bool) {
	fn, ok := c.filters[name]
	return fn, ok
}
