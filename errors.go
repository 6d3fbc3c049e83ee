package fluid

import "fmt"

// The engine reports three kinds of failure, one per pipeline stage: lexing,
// parsing, and rendering. Each error carries a readable description built
// from the offending token or value. The first error aborts the whole call;
// Parse never returns a partial template and Render never returns partial
// output.

// LexError reports malformed template source: an unterminated delimiter
// region or a character that cannot start a token. Pos is the byte offset
// into the source where the problem was found.
type LexError struct {
	Pos int
	Msg string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lex error at offset %d: %s", e.Pos, e.Msg)
}

// ParseError reports structural or grammatical problems: an unknown tag or
// block name, a block that is never closed, or a directive rejecting its
// argument tokens.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string {
	return "parse error: " + e.Msg
}

// RenderError reports failures while evaluating a parsed template against a
// context, such as iterating over a non-array value or a failing filter.
// Cause, when set, is the underlying error and is reachable via errors.As.
type RenderError struct {
	Msg   string
	Cause error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return "render error: " + e.Msg + ": " + e.Cause.Error()
	}
	return "render error: " + e.Msg
}

func (e *RenderError) Unwrap() error { return e.Cause }

func lexErrorf(pos int, format string, args ...any) error {
	return &LexError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

func renderErrorf(format string, args ...any) error {
	return &RenderError{Msg: fmt.Sprintf(format, args...)}
}

func renderWrap(cause error, format string, args ...any) error {
	return &RenderError{Msg: fmt.Sprintf(format, args...), Cause: cause}
}
