// Package types provides type definitions for structured data used throughout the resume renderer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Item is a list entry that may be written either as a bare string or as a
// mapping of named fields (e.g. {name: Go, level: native}).
type Item struct {
	Text   string
	Fields map[string]string
}

// TextItem builds a bare-string item.
func TextItem(text string) Item {
	return Item{Text: text}
}

// FieldItem builds a mapping item from alternating key/value pairs.
func FieldItem(kv ...string) Item {
	it := Item{Fields: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		it.Fields[kv[i]] = kv[i+1]
	}
	return it
}

// TextItems builds bare-string items from a list of strings.
func TextItems(texts ...string) []Item {
	out := make([]Item, 0, len(texts))
	for _, t := range texts {
		out = append(out, TextItem(t))
	}
	return out
}

// IsMap reports whether the item was written as a mapping.
func (it Item) IsMap() bool {
	return it.Fields != nil
}

// Get returns the first non-empty trimmed field among keys.
// Bare-string items have no fields and always return "".
func (it Item) Get(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(it.Fields[k]); v != "" {
			return v
		}
	}
	return ""
}

// TextOr returns the bare text of the item, or the first non-empty field among keys.
func (it Item) TextOr(keys ...string) string {
	if !it.IsMap() {
		return strings.TrimSpace(it.Text)
	}
	return it.Get(keys...)
}

// UnmarshalYAML accepts a scalar or a mapping of scalars.
// Nested values inside a mapping are flattened to their YAML text.
func (it *Item) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		it.Text = value.Value
		it.Fields = nil
		return nil
	case yaml.MappingNode:
		it.Text = ""
		it.Fields = make(map[string]string, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			k, v := value.Content[i], value.Content[i+1]
			it.Fields[k.Value] = scalarText(v)
		}
		return nil
	default:
		return fmt.Errorf("line %d: expected string or mapping for list item", value.Line)
	}
}

// MarshalYAML writes bare items as strings and mapping items as sorted mappings.
func (it Item) MarshalYAML() (interface{}, error) {
	if !it.IsMap() {
		return it.Text, nil
	}
	keys := make([]string, 0, len(it.Fields))
	for k := range it.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range keys {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: it.Fields[k]},
		)
	}
	return node, nil
}

func scalarText(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return ""
		}
		return n.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if s := scalarText(c); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
