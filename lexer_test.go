package fluid

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTokenizeSplitsElements(t *testing.T) {
	elements, err := Tokenize("test {{name}} {%if x%}!{%endif%}")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	want := []Element{
		{Kind: ElementText, Source: "test "},
		{Kind: ElementExpression, Tokens: []Token{ident("name")}, Source: "{{name}}"},
		{Kind: ElementText, Source: " "},
		{Kind: ElementTag, Tokens: []Token{ident("if"), ident("x")}, Source: "{%if x%}"},
		{Kind: ElementText, Source: "!"},
		{Kind: ElementTag, Tokens: []Token{ident("endif")}, Source: "{%endif%}"},
	}
	if diff := cmp.Diff(want, elements); diff != "" {
		t.Fatalf("element mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeSourceSpansReassemble(t *testing.T) {
	src := "a {{ x | join: ', ' }} b {% for x in xs %}{{ x }}{% endfor %} c"
	elements, err := Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	var b strings.Builder
	for _, el := range elements {
		b.WriteString(el.Source)
	}
	if b.String() != src {
		t.Fatalf("sources do not reassemble the input:\nwant %q\ngot  %q", src, b.String())
	}
}

func TestTokenizeLiteralTextOnly(t *testing.T) {
	elements, err := Tokenize("no delimiters here, just { braces } and %")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	if len(elements) != 1 || elements[0].Kind != ElementText {
		t.Fatalf("want a single text element, got %#v", elements)
	}
}

func TestGranularizeTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Token
	}{
		{
			name: "identifiers and punctuation",
			src:  "{{ a.b | join: x, 'y' }}",
			want: []Token{
				ident("a"), punct(TokenDot, "."), ident("b"),
				punct(TokenPipe, "|"), ident("join"), punct(TokenColon, ":"),
				ident("x"), punct(TokenComma, ","),
				{Kind: TokenStringLiteral, Text: "y"},
			},
		},
		{
			name: "numbers",
			src:  "{{ 22 3.5 -4 -0.25 }}",
			want: []Token{
				{Kind: TokenNumberLiteral, Text: "22", Num: 22},
				{Kind: TokenNumberLiteral, Text: "3.5", Num: 3.5},
				{Kind: TokenNumberLiteral, Text: "-4", Num: -4},
				{Kind: TokenNumberLiteral, Text: "-0.25", Num: -0.25},
			},
		},
		{
			name: "double quoted string keeps spaces",
			src:  `{{ "a b  c" }}`,
			want: []Token{{Kind: TokenStringLiteral, Text: "a b  c"}},
		},
		{
			name: "comparisons",
			src:  "{% if a == b and c != d or e < f and g <= h or i > j and k >= l %}",
			want: []Token{
				ident("if"),
				ident("a"), {Kind: TokenComparison, Text: "==", Op: CompareEquals}, ident("b"),
				ident("and"),
				ident("c"), {Kind: TokenComparison, Text: "!=", Op: CompareNotEquals}, ident("d"),
				ident("or"),
				ident("e"), {Kind: TokenComparison, Text: "<", Op: CompareLess}, ident("f"),
				ident("and"),
				ident("g"), {Kind: TokenComparison, Text: "<=", Op: CompareLessEqual}, ident("h"),
				ident("or"),
				ident("i"), {Kind: TokenComparison, Text: ">", Op: CompareGreater}, ident("j"),
				ident("and"),
				ident("k"), {Kind: TokenComparison, Text: ">=", Op: CompareGreaterEqual}, ident("l"),
			},
		},
		{
			name: "contains is an operator, not an identifier",
			src:  "{% if xs contains x %}",
			want: []Token{
				ident("if"), ident("xs"),
				{Kind: TokenComparison, Text: "contains", Op: CompareContains},
				ident("x"),
			},
		},
		{
			name: "range and brackets",
			src:  "{% for i in (1..5) %}",
			want: []Token{
				ident("for"), ident("i"), ident("in"),
				punct(TokenOpenRound, "("),
				{Kind: TokenNumberLiteral, Text: "1", Num: 1},
				punct(TokenDotDot, ".."),
				{Kind: TokenNumberLiteral, Text: "5", Num: 5},
				punct(TokenCloseRound, ")"),
			},
		},
		{
			name: "square brackets and question",
			src:  "{{ a[0]? }}",
			want: []Token{
				ident("a"), punct(TokenOpenSquare, "["),
				{Kind: TokenNumberLiteral, Text: "0", Num: 0},
				punct(TokenCloseSquare, "]"), punct(TokenQuestion, "?"),
			},
		},
		{
			name: "hyphenated identifier and trailing question mark",
			src:  "{{ my-var empty? }}",
			want: []Token{ident("my-var"), ident("empty?")},
		},
		{
			name: "bare dash",
			src:  "{{ - }}",
			want: []Token{punct(TokenDash, "-")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements, err := Tokenize(tt.src)
			if err != nil {
				t.Fatalf("tokenize error: %v", err)
			}
			if len(elements) != 1 {
				t.Fatalf("want one element, got %d", len(elements))
			}
			if diff := cmp.Diff(tt.want, elements[0].Tokens); diff != "" {
				t.Fatalf("token mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  int
		msg  string
	}{
		{"unterminated expression", "abc {{x", 4, "expression is opened but never closed"},
		{"unterminated tag", "{%if x", 0, "tag is opened but never closed"},
		{"unterminated string", "{{ 'abc }}", 3, "string literal is never closed"},
		{"stray ampersand", "{{ & }}", 3, `unexpected character "&"`},
		{"single equals", "{{ a = b }}", 5, "unexpected character '='"},
		{"single bang", "{{ a ! b }}", 5, "unexpected character '!'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.src)
			if err == nil {
				t.Fatalf("want an error, got none")
			}
			var lexErr *LexError
			if !errors.As(err, &lexErr) {
				t.Fatalf("want a LexError, got %T: %v", err, err)
			}
			if lexErr.Pos != tt.pos {
				t.Fatalf("want position %d, got %d (%v)", tt.pos, lexErr.Pos, err)
			}
			if !strings.Contains(lexErr.Msg, tt.msg) {
				t.Fatalf("want message containing %q, got %q", tt.msg, lexErr.Msg)
			}
		})
	}
}

func TestTokenStrings(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{ident("name"), `identifier "name"`},
		{Token{Kind: TokenStringLiteral, Text: "wat"}, `string "wat"`},
		{Token{Kind: TokenNumberLiteral, Num: 22}, "number 22"},
		{Token{Kind: TokenNumberLiteral, Num: 3.5}, "number 3.5"},
		{Token{Kind: TokenComparison, Op: CompareContains}, "operator contains"},
		{punct(TokenPipe, "|"), `"|"`},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Fatalf("want %q, got %q", tt.want, got)
		}
	}
}
