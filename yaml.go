package fluid

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// YAML binding for the value model. Scalars map to Nil, Bool, Num and Str;
// sequences map to Array. Mappings are rejected: the model has no mapping
// kind, so a nested mapping in a context document is a data error rather
// than something to coerce silently.

// ContextFromYAML builds a render context from a YAML mapping document,
// one variable per top-level key. An empty or null document yields an
// empty context.
func ContextFromYAML(data []byte) (*Context, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding context document: %w", err)
	}
	ctx := NewContext()
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return ctx, nil
		}
		root = root.Content[0]
	}
	if root.Kind == 0 || (root.Kind == yaml.ScalarNode && root.Tag == "!!null") {
		return ctx, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("context document must be a mapping, got a %s", nodeKindName(root.Kind))
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		v, err := ValueFromYAMLNode(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", key.Value, err)
		}
		ctx.Set(key.Value, v)
	}
	return ctx, nil
}

// ValueFromYAML decodes a single YAML document into a Value.
func ValueFromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return NilValue{}, nil
	}
	return ValueFromYAMLNode(&doc)
}

// ValueFromYAMLNode converts one decoded YAML node into a Value.
func ValueFromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return NilValue{}, nil
		}
		return ValueFromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return ValueFromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return NilValue{}, nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return nil, err
			}
			return BoolValue(b), nil
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				return nil, err
			}
			return NumValue(f), nil
		default:
			return StrValue(n.Value), nil
		}
	case yaml.SequenceNode:
		arr := make(ArrayValue, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := ValueFromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.MappingNode:
		return nil, fmt.Errorf("line %d: the value model has no mapping kind", n.Line)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind", n.Line)
}

func nodeKindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}

// MarshalYAML lets the value kinds encode as their natural YAML forms, so
// a context dumped into a document reads back with ValueFromYAML.
func (NilValue) MarshalYAML() (any, error) { return nil, nil }

func (b BoolValue) MarshalYAML() (any, error) { return bool(b), nil }

// MarshalYAML encodes integral numbers without a fractional part,
// matching String.
func (n NumValue) MarshalYAML() (any, error) {
	f := float64(n)
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), nil
	}
	return f, nil
}

func (s StrValue) MarshalYAML() (any, error) { return string(s), nil }

func (a ArrayValue) MarshalYAML() (any, error) { return []Value(a), nil }
