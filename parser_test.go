package fluid

import (
	"errors"
	"strings"
	"testing"
)

func TestParseElementsTextAndOutput(t *testing.T) {
	elements, err := Tokenize("Hello {{ name }}!")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	nodes, err := ParseElements(elements, NewOptions())
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(nodes) != 3 {
		t.Fatalf("want 3 nodes, got %d", len(nodes))
	}
	if tn, ok := nodes[0].(*textNode); !ok || tn.text != "Hello " {
		t.Fatalf("node0 not Text('Hello '): %#v", nodes[0])
	}
	if on, ok := nodes[1].(*outputNode); !ok || on.subject.variable != "name" {
		t.Fatalf("node1 not Output(name): %#v", nodes[1])
	}
	if tn, ok := nodes[2].(*textNode); !ok || tn.text != "!" {
		t.Fatalf("node2 not Text('!'): %#v", nodes[2])
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"unknown tag", "{% bogus %}", `identifier "bogus" is not a registered tag or block`},
		{"stray end marker", "oops {% endif %}", `identifier "endif" is not a registered tag or block`},
		{"unclosed block", "{% if x %}y", `block "if" is never closed, expected {% endif %}`},
		{"unclosed nested block", "{% if x %}{% if y %}{% endif %}", `block "if" is never closed`},
		{"empty expression", "{{ }}", "empty expression"},
		{"empty tag", "{% %}", "empty tag"},
		{"tag without a name", "{% 42 %}", "expected a directive name, found number 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src, nil)
			if err == nil {
				t.Fatalf("want an error, got none")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("want a ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(parseErr.Msg, tt.msg) {
				t.Fatalf("want message containing %q, got %q", tt.msg, parseErr.Msg)
			}
		})
	}
}

func TestGroupBlockSpansAndDepth(t *testing.T) {
	src := "{% raw %}a{{ b }}{% raw %}c{% endraw %}{% endraw %}"
	elements, err := Tokenize(src)
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	block, next, err := groupBlock(elements, 0, "raw")
	if err != nil {
		t.Fatalf("group error: %v", err)
	}
	if next != len(elements) {
		t.Fatalf("want the group to consume all %d elements, stopped at %d", len(elements), next)
	}
	if block.Kind != ElementBlock {
		t.Fatalf("want a block element, got kind %d", block.Kind)
	}
	if block.Source != src {
		t.Fatalf("block source mismatch:\nwant %q\ngot  %q", src, block.Source)
	}
	// The inner raw opener and closer stay in the body; only the outer
	// markers are stripped.
	if len(block.Inner) != 5 {
		t.Fatalf("want 5 inner elements, got %d", len(block.Inner))
	}
}

func TestTagWinsOverBlock(t *testing.T) {
	opts := NewOptions()
	opts.RegisterTag("thing", func(name string, tokens []Token, o *Options) Renderable {
		return newText("tag")
	})
	opts.RegisterBlock("thing", func(name string, tokens []Token, body []Element, o *Options) (Renderable, error) {
		return newText("block"), nil
	})
	tpl, err := Parse("{% thing %}", opts)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	out, err := tpl.Render(NewContext())
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "tag" {
		t.Fatalf("want the tag constructor to win, got %q", out)
	}
}

func TestParseElementsAcceptsGroupedBlocks(t *testing.T) {
	body, err := Tokenize("hello {{ name }}")
	if err != nil {
		t.Fatalf("tokenize error: %v", err)
	}
	block := Element{
		Kind:   ElementBlock,
		Tokens: []Token{ident("if"), ident("greet")},
		Inner:  body,
	}
	opts := NewOptions()
	opts.registerBuiltins()
	nodes, err := ParseElements([]Element{block}, opts)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ctx := NewContext()
	ctx.Set("greet", BoolValue(true))
	ctx.Set("name", StrValue("you"))
	out, err := NewTemplate(nodes).Render(ctx)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if out != "hello you" {
		t.Fatalf("got %q", out)
	}
}

func TestParseElementsRejectsUnregisteredBlockElement(t *testing.T) {
	block := Element{Kind: ElementBlock, Tokens: []Token{ident("widget")}}
	_, err := ParseElements([]Element{block}, NewOptions())
	if err == nil || !strings.Contains(err.Error(), `"widget" is not a registered block`) {
		t.Fatalf("want an unregistered block error, got %v", err)
	}
}
