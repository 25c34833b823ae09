package types

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// FieldSkip records a field whose value could not be decoded. The field keeps
// its previous (default) value.
type FieldSkip struct {
	Field string
	Line  int
	Err   error
}

func (s FieldSkip) String() string {
	return fmt.Sprintf("%s (line %d): %v", s.Field, s.Line, s.Err)
}

// decodeMapping decodes each known key of a mapping node into its target
// independently. A value that fails to decode leaves its target untouched and
// is reported as a FieldSkip; unknown keys are ignored.
func decodeMapping(value *yaml.Node, prefix string, fields map[string]interface{}) ([]FieldSkip, error) {
	value = unwrapDocument(value)
	if value == nil || isNull(value) {
		return nil, nil
	}
	if value.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping for %s", value.Line, describe(prefix))
	}

	var skips []FieldSkip
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		target, ok := fields[key.Value]
		if !ok {
			continue
		}
		if err := decodeInto(val, target); err != nil {
			skips = append(skips, FieldSkip{Field: prefix + key.Value, Line: val.Line, Err: err})
		}
	}
	return skips, nil
}

// decodeInto decodes into a scratch copy of target and only commits on success,
// so a partially decoded value never leaks into the caller's struct.
func decodeInto(val *yaml.Node, target interface{}) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("decode target must be a non-nil pointer")
	}
	scratch := reflect.New(rv.Elem().Type())
	scratch.Elem().Set(rv.Elem())
	if err := val.Decode(scratch.Interface()); err != nil {
		return err
	}
	rv.Elem().Set(scratch.Elem())
	return nil
}

func unwrapDocument(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

func describe(prefix string) string {
	if prefix == "" {
		return "document"
	}
	return prefix[:len(prefix)-1]
}

// Deref returns *p, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
