package frontmatter

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML fills known fields and keeps every other key as a node.
func (f *Frontmatter) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: header is not a mapping", ErrMalformed)
	}
	if f.extra == nil {
		f.extra = make(map[string]*yaml.Node)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]

		switch key {
		case KeyCreated:
			f.Created = scalarText(value)
		case KeyOriginalFilename:
			f.OriginalFilename = scalarText(value)
		case KeyDuration:
			f.Duration = scalarText(value)
		case KeyError:
			f.Error = scalarText(value)
		case KeyProcessedFilename:
			f.ProcessedFilename = scalarText(value)
		case KeyProcessor:
			f.Processor = scalarText(value)
		case KeyPages:
			if err := value.Decode(&f.Pages); err != nil {
				return fmt.Errorf("%w: pages: %v", ErrMalformed, err)
			}
		default:
			if _, exists := f.extra[key]; !exists {
				f.extraKeys = append(f.extraKeys, key)
			}
			f.extra[key] = value
		}
	}
	return nil
}

// MarshalYAML emits known fields first, then extras in their original order.
func (f *Frontmatter) MarshalYAML() (interface{}, error) {
	out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	add := func(key string, value *yaml.Node) {
		out.Content = append(out.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
	}
	// plain scalars for the fixed-format fields keep "created: 2025-01-02 10:00:00" unquoted
	plain := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: v}
	}
	str := func(v string) *yaml.Node {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
	}

	if f.Created != "" {
		add(KeyCreated, plain(f.Created))
	}
	if f.OriginalFilename != "" {
		add(KeyOriginalFilename, plain(f.OriginalFilename))
	}
	if f.Duration != "" {
		add(KeyDuration, plain(f.Duration))
	}
	if f.Error != "" {
		add(KeyError, str(f.Error))
	}
	if f.ProcessedFilename != "" {
		add(KeyProcessedFilename, str(f.ProcessedFilename))
	}
	if f.Processor != "" {
		add(KeyProcessor, str(f.Processor))
	}
	if f.Pages > 0 {
		add(KeyPages, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: fmt.Sprint(f.Pages)})
	}
	for _, k := range f.extraKeys {
		add(k, f.extra[k])
	}
	return out, nil
}

// scalarText returns the raw text of a scalar. An unquoted vault link such as
// [[a|b]] parses as a nested flow sequence; it is folded back into its text.
func scalarText(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	case yaml.SequenceNode:
		if len(n.Content) == 1 && n.Content[0].Kind == yaml.SequenceNode &&
			len(n.Content[0].Content) == 1 && n.Content[0].Content[0].Kind == yaml.ScalarNode {
			return "[[" + n.Content[0].Content[0].Value + "]]"
		}
	}
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return ""
	}
	return fmt.Sprint(v)
}
