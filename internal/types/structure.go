package types

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Structure is a section order and title map, usually inferred from the
// headings of a reference document. A nil Order means no order was supplied.
type Structure struct {
	Order  []string          `yaml:"order" json:"order"`
	Titles map[string]string `yaml:"titles,omitempty" json:"titles,omitempty"`

	skips []FieldSkip
}

// UnmarshalYAML tolerates a malformed `order` or `titles` by dropping that field.
func (s *Structure) UnmarshalYAML(value *yaml.Node) error {
	var out Structure
	skips, err := decodeMapping(value, "", map[string]interface{}{
		"order":  &out.Order,
		"titles": &out.Titles,
	})
	if err != nil {
		return err
	}
	if out.Order != nil {
		cleaned := make([]string, 0, len(out.Order))
		for _, k := range out.Order {
			if k = strings.TrimSpace(k); k != "" {
				cleaned = append(cleaned, k)
			}
		}
		out.Order = cleaned
	}
	out.skips = skips
	*s = out
	return nil
}

// DecodeSkips returns the fields dropped while decoding.
func (s *Structure) DecodeSkips() []FieldSkip {
	return s.skips
}

// HasOrder reports whether an order was supplied, even an empty one.
func (s *Structure) HasOrder() bool {
	return s != nil && s.Order != nil
}

// Title returns the title recorded for key, if any.
func (s *Structure) Title(key string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(s.Titles[key])
}
