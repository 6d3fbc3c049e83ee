package fluid

import "strings"

// Template is a parsed template: an ordered sequence of renderable nodes.
// It is immutable after construction, so one Template may be rendered from
// several goroutines at once as long as every render gets its own Context.
type Template struct {
	nodes []Renderable
}

// NewTemplate wraps parsed nodes. Most callers get templates from Parse;
// block constructors use NewTemplate to pre-parse their bodies.
func NewTemplate(nodes []Renderable) *Template {
	return &Template{nodes: nodes}
}

// Render evaluates every node in order against ctx and concatenates the
// output. One context flows through all nodes, so a binding made by one
// node is visible to the nodes after it. The first failing node aborts the
// render; no partial output is returned.
func (t *Template) Render(ctx *Context) (string, error) {
	var b strings.Builder
	for _, node := range t.nodes {
		out, err := node.Render(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
