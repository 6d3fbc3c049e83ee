package fluid

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// argument is an interpolation operand: either a literal value or a
// variable name looked up in the context at render time. An unset variable
// resolves to nil rather than failing, which makes a missing name render
// as empty text.
type argument struct {
	variable string
	literal  Value
}

func (a argument) resolve(ctx *Context) Value {
	if a.variable != "" {
		if v, ok := ctx.Get(a.variable); ok {
			return v.Clone()
		}
		return NilValue{}
	}
	return a.literal
}

func (a argument) String() string {
	if a.variable != "" {
		return a.variable
	}
	if a.literal == nil {
		return "nil"
	}
	if s, ok := a.literal.(StrValue); ok {
		return strconv.Quote(string(s))
	}
	return a.literal.String()
}

// filterCall is one stage of an interpolation's filter pipeline.
type filterCall struct {
	name string
	args []argument
}

// outputNode renders a {{ subject.path | filter: args }} interpolation.
type outputNode struct {
	subject argument
	path    []string
	filters []filterCall
}

// parseOutput builds an interpolation node from a region's tokens:
//
//	output := atom {"." (identifier | number)} {"|" identifier [":" atom {"," atom}]}
//	atom   := identifier | string | number
//
// Numeric steps index into arrays, so {{ a.0 }} is the first element of a.
func parseOutput(tokens []Token) (Renderable, error) {
	subject, err := parseAtom(tokens[0])
	if err != nil {
		return nil, err
	}
	node := &outputNode{subject: subject}
	i := 1
	for i < len(tokens) && tokens[i].Kind == TokenDot {
		if i+1 >= len(tokens) {
			return nil, parseErrorf("expected an identifier after '.'")
		}
		step := tokens[i+1]
		if step.Kind != TokenIdentifier && step.Kind != TokenNumberLiteral {
			return nil, parseErrorf("expected an identifier after '.', found %s", step)
		}
		node.path = append(node.path, step.Text)
		i += 2
	}
	for i < len(tokens) {
		if tokens[i].Kind != TokenPipe {
			return nil, parseErrorf("expected '|', found %s", tokens[i])
		}
		i++
		if i >= len(tokens) || tokens[i].Kind != TokenIdentifier {
			return nil, parseErrorf("expected a filter name after '|'")
		}
		call := filterCall{name: tokens[i].Text}
		i++
		if i < len(tokens) && tokens[i].Kind == TokenColon {
			for {
				i++
				if i >= len(tokens) {
					return nil, parseErrorf("expected an argument for filter %q", call.name)
				}
				arg, err := parseAtom(tokens[i])
				if err != nil {
					return nil, err
				}
				call.args = append(call.args, arg)
				i++
				if i >= len(tokens) || tokens[i].Kind != TokenComma {
					break
				}
			}
		}
		node.filters = append(node.filters, call)
	}
	return node, nil
}

func parseAtom(t Token) (argument, error) {
	switch t.Kind {
	case TokenIdentifier:
		return argument{variable: t.Text}, nil
	case TokenStringLiteral:
		return argument{literal: StrValue(t.Text)}, nil
	case TokenNumberLiteral:
		return argument{literal: NumValue(t.Num)}, nil
	}
	return argument{}, parseErrorf("expected an identifier or literal, found %s", t)
}

// exprString reconstructs a readable form of the interpolation for Pretty.
func (o *outputNode) exprString() string {
	var b strings.Builder
	b.WriteString(o.subject.String())
	for _, p := range o.path {
		b.WriteByte('.')
		b.WriteString(p)
	}
	for _, call := range o.filters {
		b.WriteString(" | ")
		b.WriteString(call.name)
	}
	return b.String()
}

// Render resolves the subject, walks the property chain, folds the filter
// pipeline left to right, and stringifies the result.
func (o *outputNode) Render(ctx *Context) (string, error) {
	v := o.subject.resolve(ctx)
	for _, name := range o.path {
		v = property(v, name)
	}
	for _, call := range o.filters {
		fn, ok := ctx.Filter(call.name)
		if !ok {
			return "", renderErrorf("unknown filter %q", call.name)
		}
		args := make([]Value, len(call.args))
		for i, a := range call.args {
			args[i] = a.resolve(ctx)
		}
		out, err := fn(v, args)
		if err != nil {
			return "", renderWrap(err, "filter %q", call.name)
		}
		v = out
	}
	return v.String(), nil
}

// property resolves one step of a dotted chain. Arrays answer size, first,
// last, and decimal offsets; strings answer size. Every other combination
// resolves to nil, consistent with unset-variable handling.
func property(v Value, name string) Value {
	switch v := v.(type) {
	case ArrayValue:
		switch name {
		case "size":
			return NumValue(len(v))
		case "first":
			if len(v) > 0 {
				return v[0].Clone()
			}
		case "last":
			if len(v) > 0 {
				return v[len(v)-1].Clone()
			}
		default:
			if idx, err := strconv.Atoi(name); err == nil && idx >= 0 && idx < len(v) {
				return v[idx].Clone()
			}
		}
	case StrValue:
		if name == "size" {
			return NumValue(utf8.RuneCountInString(string(v)))
		}
	}
	return NilValue{}
}
