package fluid

// textNode emits a literal source span verbatim. The raw block reuses it
// to replay its body bytes.
type textNode struct {
	text string
}

func newText(text string) *textNode { return &textNode{text: text} }

func (t *textNode) Render(*Context) (string, error) { return t.text, nil }
