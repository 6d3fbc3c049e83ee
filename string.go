package fluid

import "fmt"

// TemplateString is template source carried as a plain string. It decodes
// naturally from configuration documents and parses with default options
// on every call, trading repeated parses for zero setup.
type TemplateString string

// Validate checks that the template parses.
func (t TemplateString) Validate() error {
	if _, err := Parse(string(t), nil); err != nil {
		return fmt.Errorf("invalid template: %w", err)
	}
	return nil
}

// Render parses and renders the template against ctx.
func (t TemplateString) Render(ctx *Context) (string, error) {
	tpl, err := Parse(string(t), nil)
	if err != nil {
		return "", fmt.Errorf("parsing template: %w", err)
	}
	return tpl.Render(ctx)
}
