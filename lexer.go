package fluid

import (
	"fmt"
	"strconv"
	"strings"
)

// The lexer works in two levels. The first pass splits template source into
// Elements: literal text, expressions ({{ ... }}), and tags ({% ... %}).
// The second pass breaks the content of each non-literal region into Tokens.
// Matching a block's closing tag is structural and happens later, in the
// parser, which knows which names open blocks.

// TokenKind identifies a lexical unit inside an expression or tag region.
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenStringLiteral
	TokenNumberLiteral
	TokenComparison
	TokenPipe
	TokenDot
	TokenDotDot
	TokenColon
	TokenComma
	TokenOpenSquare
	TokenCloseSquare
	TokenOpenRound
	TokenCloseRound
	TokenQuestion
	TokenDash
)

// CompareOp is the operator carried by a comparison token.
type CompareOp int

const (
	CompareEquals CompareOp = iota
	CompareNotEquals
	CompareLess
	CompareGreater
	CompareLessEqual
	CompareGreaterEqual
	CompareContains
)

func (op CompareOp) String() string {
	switch op {
	case CompareEquals:
		return "=="
	case CompareNotEquals:
		return "!="
	case CompareLess:
		return "<"
	case CompareGreater:
		return ">"
	case CompareLessEqual:
		return "<="
	case CompareGreaterEqual:
		return ">="
	case CompareContains:
		return "contains"
	}
	return "?"
}

// Token is a single lexical unit. Text holds the identifier name, string
// literal contents, or the punctuation as written; Num and Op are set for
// number and comparison tokens respectively.
type Token struct {
	Kind TokenKind
	Text string
	Num  float64
	Op   CompareOp
}

// String renders the token for error messages, naming what was found:
// `identifier "foo"`, `string "bar"`, `number 22`, `operator ==`, or the
// bare punctuation.
func (t Token) String() string {
	switch t.Kind {
	case TokenIdentifier:
		return fmt.Sprintf("identifier %q", t.Text)
	case TokenStringLiteral:
		return fmt.Sprintf("string %q", t.Text)
	case TokenNumberLiteral:
		return "number " + NumValue(t.Num).String()
	case TokenComparison:
		return "operator " + t.Op.String()
	}
	return fmt.Sprintf("%q", t.Text)
}

func ident(name string) Token           { return Token{Kind: TokenIdentifier, Text: name} }
func punct(k TokenKind, s string) Token { return Token{Kind: k, Text: s} }

// ElementKind identifies a structural unit of the template.
type ElementKind int

const (
	// ElementText is a span of literal text between delimiters.
	ElementText ElementKind = iota
	// ElementExpression is a {{ ... }} region.
	ElementExpression
	// ElementTag is a {% ... %} region.
	ElementTag
	// ElementBlock is a tag together with its nested body, assembled by the
	// parser once it recognizes the tag name as a registered block.
	ElementBlock
)

// Element is a structural unit of a template. Source always holds the exact
// bytes of the region, delimiters included, so a raw block can replay its
// body verbatim. Tokens is populated for expression and tag elements (and
// holds the opening tag's tokens for a block); Inner carries a block's
// unparsed body.
type Element struct {
	Kind   ElementKind
	Tokens []Token
	Source string
	Inner  []Element
}

// Tokenize splits template source into Elements. It fails when an
// expression or tag region is opened but never closed, or when a region
// contains something that is not a valid token.
func Tokenize(text string) ([]Element, error) {
	var elements []Element
	pos := 0
	for pos < len(text) {
		open, kind := nextDelimiter(text, pos)
		if open < 0 {
			elements = append(elements, Element{Kind: ElementText, Source: text[pos:]})
			break
		}
		if open > pos {
			elements = append(elements, Element{Kind: ElementText, Source: text[pos:open]})
		}
		closing := "}}"
		what := "expression"
		if kind == ElementTag {
			closing = "%}"
			what = "tag"
		}
		end := strings.Index(text[open+2:], closing)
		if end < 0 {
			return nil, lexErrorf(open, "%s is opened but never closed", what)
		}
		end += open + 2
		tokens, err := granularize(text[open+2:end], open+2)
		if err != nil {
			return nil, err
		}
		elements = append(elements, Element{
			Kind:   kind,
			Tokens: tokens,
			Source: text[open : end+2],
		})
		pos = end + 2
	}
	return elements, nil
}

// nextDelimiter finds the earliest {{ or {% at or after pos.
func nextDelimiter(text string, pos int) (int, ElementKind) {
	expr := strings.Index(text[pos:], "{{")
	tag := strings.Index(text[pos:], "{%")
	switch {
	case expr < 0 && tag < 0:
		return -1, ElementText
	case tag < 0 || (expr >= 0 && expr < tag):
		return pos + expr, ElementExpression
	default:
		return pos + tag, ElementTag
	}
}

// granularize breaks the content of a non-literal region into tokens. base
// is the region's offset in the original source, used for error positions.
func granularize(content string, base int) ([]Token, error) {
	var tokens []Token
	i := 0
	for i < len(content) {
		c := content[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '|':
			tokens = append(tokens, punct(TokenPipe, "|"))
			i++
		case c == ':':
			tokens = append(tokens, punct(TokenColon, ":"))
			i++
		case c == ',':
			tokens = append(tokens, punct(TokenComma, ","))
			i++
		case c == '[':
			tokens = append(tokens, punct(TokenOpenSquare, "["))
			i++
		case c == ']':
			tokens = append(tokens, punct(TokenCloseSquare, "]"))
			i++
		case c == '(':
			tokens = append(tokens, punct(TokenOpenRound, "("))
			i++
		case c == ')':
			tokens = append(tokens, punct(TokenCloseRound, ")"))
			i++
		case c == '?':
			tokens = append(tokens, punct(TokenQuestion, "?"))
			i++
		case c == '.':
			if i+1 < len(content) && content[i+1] == '.' {
				tokens = append(tokens, punct(TokenDotDot, ".."))
				i += 2
			} else {
				tokens = append(tokens, punct(TokenDot, "."))
				i++
			}
		case c == '=':
			if i+1 < len(content) && content[i+1] == '=' {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: "==", Op: CompareEquals})
				i += 2
			} else {
				return nil, lexErrorf(base+i, "unexpected character '='")
			}
		case c == '!':
			if i+1 < len(content) && content[i+1] == '=' {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: "!=", Op: CompareNotEquals})
				i += 2
			} else {
				return nil, lexErrorf(base+i, "unexpected character '!'")
			}
		case c == '<':
			if i+1 < len(content) && content[i+1] == '=' {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: "<=", Op: CompareLessEqual})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: "<", Op: CompareLess})
				i++
			}
		case c == '>':
			if i+1 < len(content) && content[i+1] == '=' {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: ">=", Op: CompareGreaterEqual})
				i += 2
			} else {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: ">", Op: CompareGreater})
				i++
			}
		case c == '\'' || c == '"':
			end := strings.IndexByte(content[i+1:], c)
			if end < 0 {
				return nil, lexErrorf(base+i, "string literal is never closed")
			}
			tokens = append(tokens, Token{Kind: TokenStringLiteral, Text: content[i+1 : i+1+end]})
			i += end + 2
		case isDigit(c) || (c == '-' && i+1 < len(content) && isDigit(content[i+1])):
			start := i
			i++
			for i < len(content) && isDigit(content[i]) {
				i++
			}
			if i+1 < len(content) && content[i] == '.' && isDigit(content[i+1]) {
				i++
				for i < len(content) && isDigit(content[i]) {
					i++
				}
			}
			n, err := strconv.ParseFloat(content[start:i], 64)
			if err != nil {
				return nil, lexErrorf(base+start, "invalid number %q", content[start:i])
			}
			tokens = append(tokens, Token{Kind: TokenNumberLiteral, Text: content[start:i], Num: n})
		case c == '-':
			tokens = append(tokens, punct(TokenDash, "-"))
			i++
		case isIdentStart(c):
			start := i
			i++
			for i < len(content) && isIdentPart(content[i]) {
				i++
			}
			// A single trailing question mark belongs to the identifier.
			if i < len(content) && content[i] == '?' {
				i++
			}
			name := content[start:i]
			if name == "contains" {
				tokens = append(tokens, Token{Kind: TokenComparison, Text: name, Op: CompareContains})
			} else {
				tokens = append(tokens, ident(name))
			}
		default:
			return nil, lexErrorf(base+i, "unexpected character %q", string(c))
		}
	}
	return tokens, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-'
}
