package fluid

import "strings"

// clause is one comparison in a condition: a left atom, optionally compared
// against a right atom. Without an operator the clause is the left atom's
// truthiness.
type clause struct {
	left  argument
	op    CompareOp
	right argument
	cmp   bool
}

func (c clause) eval(ctx *Context) (bool, error) {
	left := c.left.resolve(ctx)
	if !c.cmp {
		return left.Truth(), nil
	}
	right := c.right.resolve(ctx)
	switch c.op {
	case CompareEquals:
		return valueEq(left, right), nil
	case CompareNotEquals:
		return !valueEq(left, right), nil
	case CompareContains:
		return valueContains(left, right)
	}
	return compareValues(left, right, c.op)
}

func (c clause) String() string {
	if !c.cmp {
		return c.left.String()
	}
	return c.left.String() + " " + c.op.String() + " " + c.right.String()
}

// joined is a clause glued to the condition so far by and / or.
type joined struct {
	and bool
	c   clause
}

// ifNode renders one of two branches depending on its condition.
type ifNode struct {
	first clause
	rest  []joined
	then  *Template
	other *Template
}

// ifBlock builds the conditional directive. The branch bodies are parsed
// before the condition, matching the for directive's order. An optional
// top-level {% else %} marker splits the body in two.
func ifBlock(_ string, tokens []Token, body []Element, opts *Options) (Renderable, error) {
	thenEls, elseEls, hasElse := splitElse(body, opts)
	thenNodes, err := ParseElements(thenEls, opts)
	if err != nil {
		return nil, err
	}
	node := &ifNode{then: NewTemplate(thenNodes)}
	if hasElse {
		elseNodes, err := ParseElements(elseEls, opts)
		if err != nil {
			return nil, err
		}
		node.other = NewTemplate(elseNodes)
	}
	node.first, node.rest, err = parseCondition(tokens)
	if err != nil {
		return nil, err
	}
	return node, nil
}

// splitElse finds the top-level {% else %} marker in an if body. Nested
// block regions are skipped by depth counting, so an inner directive's else
// is never mistaken for ours. An else carrying extra tokens is left in
// place and will fail the body parse as an unknown tag.
func splitElse(body []Element, opts *Options) (then, other []Element, found bool) {
	depth := 0
	for i, el := range body {
		if el.Kind != ElementTag || len(el.Tokens) == 0 || el.Tokens[0].Kind != TokenIdentifier {
			continue
		}
		name := el.Tokens[0].Text
		if depth == 0 && name == "else" && len(el.Tokens) == 1 {
			return body[:i], body[i+1:], true
		}
		if _, ok := opts.Block(name); ok {
			depth++
		} else if rest, isEnd := strings.CutPrefix(name, "end"); isEnd {
			if _, ok := opts.Block(rest); ok {
				depth--
			}
		}
	}
	return body, nil, false
}

// parseCondition parses `clause {("and"|"or") clause}`. There is no
// precedence or grouping: the chain folds left to right.
func parseCondition(tokens []Token) (clause, []joined, error) {
	first, i, err := parseClause(tokens, 0)
	if err != nil {
		return clause{}, nil, err
	}
	var rest []joined
	for i < len(tokens) {
		t := tokens[i]
		if t.Kind != TokenIdentifier || (t.Text != "and" && t.Text != "or") {
			return clause{}, nil, parseErrorf("expected 'and' or 'or', found %s", t)
		}
		c, next, err := parseClause(tokens, i+1)
		if err != nil {
			return clause{}, nil, err
		}
		rest = append(rest, joined{and: t.Text == "and", c: c})
		i = next
	}
	return first, rest, nil
}

// parseClause parses `atom [compop atom]` starting at tokens[i].
func parseClause(tokens []Token, i int) (clause, int, error) {
	if i >= len(tokens) {
		return clause{}, 0, parseErrorf("expected a condition")
	}
	left, err := parseAtom(tokens[i])
	if err != nil {
		return clause{}, 0, err
	}
	i++
	c := clause{left: left}
	if i < len(tokens) && tokens[i].Kind == TokenComparison {
		opTok := tokens[i]
		c.op = opTok.Op
		c.cmp = true
		i++
		if i >= len(tokens) {
			return clause{}, 0, parseErrorf("expected a value after %s", opTok)
		}
		c.right, err = parseAtom(tokens[i])
		if err != nil {
			return clause{}, 0, err
		}
		i++
	}
	return c, i, nil
}

// condString reconstructs the condition for Pretty.
func (n *ifNode) condString() string {
	var b strings.Builder
	b.WriteString(n.first.String())
	for _, j := range n.rest {
		if j.and {
			b.WriteString(" and ")
		} else {
			b.WriteString(" or ")
		}
		b.WriteString(j.c.String())
	}
	return b.String()
}

// Render evaluates the condition and renders exactly one branch. A missing
// else branch renders as empty text.
func (n *ifNode) Render(ctx *Context) (string, error) {
	ok, err := n.eval(ctx)
	if err != nil {
		return "", err
	}
	if ok {
		return n.then.Render(ctx)
	}
	if n.other != nil {
		return n.other.Render(ctx)
	}
	return "", nil
}

// eval folds the clause chain left to right. Steps skipped by short
// circuit are not evaluated, so their type errors do not surface.
func (n *ifNode) eval(ctx *Context) (bool, error) {
	acc, err := n.first.eval(ctx)
	if err != nil {
		return false, err
	}
	for _, j := range n.rest {
		if j.and != acc {
			// and with a false accumulator stays false; or with a true
			// accumulator stays true.
			continue
		}
		acc, err = j.c.eval(ctx)
		if err != nil {
			return false, err
		}
	}
	return acc, nil
}
