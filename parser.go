package fluid

import "strings"

// ParseElements turns a lexed element stream into renderable nodes using
// the registries in opts. Block constructors call back into it to interpret
// their nested bodies, which is how arbitrarily nested directives work.
// The first error aborts parsing; no partial node list is returned.
func ParseElements(elements []Element, opts *Options) ([]Renderable, error) {
	if opts == nil {
		opts = NewOptions()
	}
	var nodes []Renderable
	i := 0
	for i < len(elements) {
		el := elements[i]
		switch el.Kind {
		case ElementText:
			nodes = append(nodes, newText(el.Source))
			i++
		case ElementExpression:
			node, err := parseExpression(el.Tokens, opts)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			i++
		case ElementTag:
			node, next, err := parseTag(elements, i, opts)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			i = next
		case ElementBlock:
			node, err := parseBlock(el, opts)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
			i++
		}
	}
	return nodes, nil
}

// parseExpression builds the node for a {{ ... }} region. A leading
// identifier that names a registered tag dispatches to that tag;
// everything else becomes an interpolation node.
func parseExpression(tokens []Token, opts *Options) (Renderable, error) {
	if len(tokens) == 0 {
		return nil, parseErrorf("empty expression")
	}
	if tokens[0].Kind == TokenIdentifier {
		if fn, ok := opts.Tag(tokens[0].Text); ok {
			return fn(tokens[0].Text, tokens[1:], opts), nil
		}
	}
	return parseOutput(tokens)
}

// parseTag dispatches a {% ... %} element. Tags are consulted before
// blocks; a block opener consumes elements up to its matching end marker.
// The returned index is the position of the first element after the
// directive and everything it consumed.
func parseTag(elements []Element, at int, opts *Options) (Renderable, int, error) {
	el := elements[at]
	if len(el.Tokens) == 0 {
		return nil, 0, parseErrorf("empty tag")
	}
	head := el.Tokens[0]
	if head.Kind != TokenIdentifier {
		return nil, 0, parseErrorf("expected a directive name, found %s", head)
	}
	if fn, ok := opts.Tag(head.Text); ok {
		return fn(head.Text, el.Tokens[1:], opts), at + 1, nil
	}
	if _, ok := opts.Block(head.Text); ok {
		block, next, err := groupBlock(elements, at, head.Text)
		if err != nil {
			return nil, 0, err
		}
		node, err := parseBlock(block, opts)
		if err != nil {
			return nil, 0, err
		}
		return node, next, nil
	}
	return nil, 0, parseErrorf("%s is not a registered tag or block", head)
}

// parseBlock hands a grouped block element to its registered constructor.
func parseBlock(el Element, opts *Options) (Renderable, error) {
	if len(el.Tokens) == 0 || el.Tokens[0].Kind != TokenIdentifier {
		return nil, parseErrorf("block element has no name")
	}
	name := el.Tokens[0].Text
	fn, ok := opts.Block(name)
	if !ok {
		return nil, parseErrorf("%q is not a registered block", name)
	}
	return fn(name, el.Tokens[1:], el.Inner, opts)
}

// groupBlock assembles a block element from its opening tag at elements[at],
// collecting inner elements until the matching {% end<name> %}. Nested
// blocks of the same name are tracked by depth so an inner opener cannot
// steal the outer close marker. The block's Source spans the whole region,
// end marker included.
func groupBlock(elements []Element, at int, name string) (Element, int, error) {
	endName := "end" + name
	depth := 0
	var inner []Element
	for i := at + 1; i < len(elements); i++ {
		el := elements[i]
		if el.Kind == ElementTag && len(el.Tokens) > 0 && el.Tokens[0].Kind == TokenIdentifier {
			switch el.Tokens[0].Text {
			case name:
				depth++
			case endName:
				if depth == 0 {
					var src strings.Builder
					for _, e := range elements[at : i+1] {
						src.WriteString(e.Source)
					}
					return Element{
						Kind:   ElementBlock,
						Tokens: elements[at].Tokens,
						Source: src.String(),
						Inner:  inner,
					}, i + 1, nil
				}
				depth--
			}
		}
		inner = append(inner, el)
	}
	return Element{}, 0, parseErrorf("block %q is never closed, expected {%% %s %%}", name, endName)
}
