package fluid

import (
	"bytes"
	"fmt"
)

// Visitor is called for every node Walk reaches.
type Visitor interface {
	Visit(n Renderable) error
}

// Walk calls v.Visit for n, then recurses into the children of the
// built-in node kinds. Custom Renderables are visited but not entered,
// their internals being opaque. The first error stops the walk.
func Walk(v Visitor, n Renderable) error {
	if err := v.Visit(n); err != nil {
		return err
	}
	switch t := n.(type) {
	case *Template:
		for _, c := range t.nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	case *forNode:
		for _, c := range t.inner.nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
	case *ifNode:
		for _, c := range t.then.nodes {
			if err := Walk(v, c); err != nil {
				return err
			}
		}
		if t.other != nil {
			for _, c := range t.other.nodes {
				if err := Walk(v, c); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Pretty returns a line-oriented representation of a parsed template,
// useful when debugging parser changes.
func Pretty(t *Template) string {
	var buf bytes.Buffer
	ppNode(&buf, 0, t)
	return buf.String()
}

func ppNode(buf *bytes.Buffer, indent int, n Renderable) {
	ind := func() {
		for i := 0; i < indent; i++ {
			buf.WriteByte(' ')
		}
	}
	switch t := n.(type) {
	case *Template:
		ind()
		buf.WriteString("Template\n")
		for _, c := range t.nodes {
			ppNode(buf, indent+2, c)
		}
	case *textNode:
		ind()
		fmt.Fprintf(buf, "Text(%q)\n", t.text)
	case *outputNode:
		ind()
		fmt.Fprintf(buf, "Output(%s)\n", t.exprString())
	case *ifNode:
		ind()
		fmt.Fprintf(buf, "If(%s)\n", t.condString())
		for _, c := range t.then.nodes {
			ppNode(buf, indent+2, c)
		}
		if t.other != nil {
			ind()
			buf.WriteString("Else\n")
			for _, c := range t.other.nodes {
				ppNode(buf, indent+2, c)
			}
		}
	case *forNode:
		ind()
		fmt.Fprintf(buf, "For(%s in %s)\n", t.varName, t.source)
		for _, c := range t.inner.nodes {
			ppNode(buf, indent+2, c)
		}
	case commentNode:
		ind()
		buf.WriteString("Comment\n")
	default:
		ind()
		fmt.Fprintf(buf, "%T\n", n)
	}
}
