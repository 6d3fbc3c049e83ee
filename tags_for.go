package fluid

import "strings"

// forNode iterates an array held in the context, rendering its body once
// per element with the loop variable bound to that element. The binding
// lands in the same flat namespace as everything else, so it survives the
// loop with its last value.
type forNode struct {
	varName string
	source  string
	inner   *Template
}

// forBlock builds the iteration directive. The body is parsed before the
// header is validated, so problems inside the body surface first. The
// header grammar is exactly `for <variable> in <array>`: no property
// paths and no filters on the source.
//
// TODO: ranges (1..5) as the source, the lexer already emits the tokens.
func forBlock(_ string, tokens []Token, body []Element, opts *Options) (Renderable, error) {
	nodes, err := ParseElements(body, opts)
	if err != nil {
		return nil, err
	}
	if len(tokens) < 1 || tokens[0].Kind != TokenIdentifier {
		return nil, parseErrorf("expected an identifier, found %s", foundToken(tokens, 0))
	}
	if len(tokens) < 2 || tokens[1].Kind != TokenIdentifier || tokens[1].Text != "in" {
		return nil, parseErrorf("expected 'in', found %s", foundToken(tokens, 1))
	}
	if len(tokens) < 3 || tokens[2].Kind != TokenIdentifier {
		return nil, parseErrorf("expected an identifier, found %s", foundToken(tokens, 2))
	}
	if len(tokens) > 3 {
		return nil, parseErrorf("unexpected %s after the source array", tokens[3])
	}
	return &forNode{
		varName: tokens[0].Text,
		source:  tokens[2].Text,
		inner:   NewTemplate(nodes),
	}, nil
}

func foundToken(tokens []Token, i int) string {
	if i >= len(tokens) {
		return "nothing"
	}
	return tokens[i].String()
}

// Render resolves the source, snapshots its elements, and renders the body
// once per element in order. Mutations made by one iteration are visible to
// the next because the same context flows through every pass. An empty
// array renders as an empty string.
func (f *forNode) Render(ctx *Context) (string, error) {
	v, ok := ctx.Get(f.source)
	if !ok {
		return "", renderErrorf("cannot iterate over %q, the variable is not set", f.source)
	}
	arr, ok := v.(ArrayValue)
	if !ok {
		return "", renderErrorf("cannot iterate over %s", describeValue(v))
	}
	items := arr.Clone().(ArrayValue)
	var b strings.Builder
	for _, item := range items {
		ctx.Set(f.varName, item)
		out, err := f.inner.Render(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
