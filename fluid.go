// Package fluid implements a small Liquid-style template engine.
//
// A template is literal text interleaved with expressions ({{ ... }}) and
// tags ({% ... %}). Parsing happens in two stages: Tokenize splits the
// source into Elements and breaks each non-literal region into Tokens, then
// the parser turns the element stream into a tree of Renderables. Rendering
// walks that tree with a Context holding variables and filters.
//
// The engine is extensible. Options carries registries of tag and block
// constructors, and the built-in directives (if, for, raw, comment) are
// ordinary registered blocks inserted by Parse.
package fluid

// Renderable is a parsed template fragment that can write itself out
// against a context. An empty string with a nil error means the fragment
// rendered successfully and produced no text.
type Renderable interface {
	Render(ctx *Context) (string, error)
}

// TagFunc constructs the renderable for a single {% name args %} directive.
// It is also consulted for {{ name }} expressions whose first token names a
// registered tag, which lets extensions hook plain interpolation syntax.
// tokens holds the arguments after the directive name. A TagFunc cannot
// fail; any validation it needs must be deferred to render time.
type TagFunc func(name string, tokens []Token, opts *Options) Renderable

// BlockFunc constructs the renderable for a {% name args %} ... {% endname %}
// region. tokens holds the opening tag's arguments after the directive
// name; body holds the unparsed elements between the delimiters. A
// BlockFunc that wants its body interpreted calls ParseElements on it.
type BlockFunc func(name string, tokens []Token, body []Element, opts *Options) (Renderable, error)

// ErrorMode declares how lenient rendering is meant to be about
// recoverable problems. The engine does not consult it yet: parsing and
// rendering fail fast on the first error regardless of the mode.
type ErrorMode int

const (
	// ModeWarn is the default.
	ModeWarn ErrorMode = iota
	ModeStrict
	ModeLax
)

func (m ErrorMode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeLax:
		return "lax"
	}
	return "warn"
}

// Options carries the registries consulted during parsing: tag and block
// constructors keyed by directive name, plus the error mode. The zero value
// is usable; so is a nil *Options passed to Parse.
type Options struct {
	Mode ErrorMode

	tags   map[string]TagFunc
	blocks map[string]BlockFunc
}

// NewOptions returns an empty registry using the default error mode.
func NewOptions() *Options {
	return &Options{
		tags:   make(map[string]TagFunc),
		blocks: make(map[string]BlockFunc),
	}
}

// RegisterTag makes fn the constructor for {% name ... %} directives and
// for {{ name ... }} expressions headed by name.
func (o *Options) RegisterTag(name string, fn TagFunc) {
	if o.tags == nil {
		o.tags = make(map[string]TagFunc)
	}
	o.tags[name] = fn
}

// RegisterBlock makes fn the constructor for {% name %} ... {% endname %}
// regions. Parse installs the built-in blocks after user registrations, so
// the names raw, if, for and comment cannot be replaced.
func (o *Options) RegisterBlock(name string, fn BlockFunc) {
	if o.blocks == nil {
		o.blocks = make(map[string]BlockFunc)
	}
	o.blocks[name] = fn
}

// Tag looks up a registered tag constructor.
func (o *Options) Tag(name string) (TagFunc, bool) {
	fn, ok := o.tags[name]
	return fn, ok
}

// Block looks up a registered block constructor.
func (o *Options) Block(name string) (BlockFunc, bool) {
	fn, ok := o.blocks[name]
	return fn, ok
}

func (o *Options) registerBuiltins() {
	o.RegisterBlock("raw", rawBlock)
	o.RegisterBlock("if", ifBlock)
	o.RegisterBlock("for", forBlock)
	o.RegisterBlock("comment", commentBlock)
}

// Parse compiles template text against the given registries. opts may be
// nil. The built-in blocks are inserted into opts as a side effect before
// parsing and overwrite any user entry of the same name. Parse never
// returns a partially built template: on error the template is nil.
func Parse(text string, opts *Options) (*Template, error) {
	if opts == nil {
		opts = NewOptions()
	}
	elements, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	opts.registerBuiltins()
	nodes, err := ParseElements(elements, opts)
	if err != nil {
		return nil, err
	}
	return NewTemplate(nodes), nil
}

// MustParse is like Parse but panics on error. It is intended for
// templates fixed at program start.
func MustParse(text string, opts *Options) *Template {
	tpl, err := Parse(text, opts)
	if err != nil {
		panic(err)
	}
	return tpl
}
