package fluid

// commentNode renders nothing.
type commentNode struct{}

func (commentNode) Render(*Context) (string, error) { return "", nil }

// commentBlock discards its body at parse time. The body is never handed
// to the parser, so a comment may contain directives that would not parse.
func commentBlock(string, []Token, []Element, *Options) (Renderable, error) {
	return commentNode{}, nil
}
