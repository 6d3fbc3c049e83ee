package fluid

import "strings"

// rawBlock captures its body as literal text at parse time. Render replays
// the bytes of the body region exactly as written, delimiter lookalikes
// included, which is how a template produces literal {{ or {% output. The
// body is never re-lexed or parsed.
func rawBlock(_ string, _ []Token, body []Element, _ *Options) (Renderable, error) {
	var b strings.Builder
	for _, el := range body {
		b.WriteString(el.Source)
	}
	return newText(b.String()), nil
}
