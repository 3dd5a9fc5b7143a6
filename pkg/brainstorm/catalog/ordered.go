package catalog

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry is one key/value pair of an OrderedMap.
type Entry[T any] struct {
	Key   string
	Value T
}

// OrderedMap decodes a YAML (or JSON) mapping while keeping document order,
// so prompt rendering and classifier tie-breaks are deterministic.
type OrderedMap[T any] []Entry[T]

func (m *OrderedMap[T]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	out := make(OrderedMap[T], 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		var v T
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("key %q: %w", node.Content[i].Value, err)
		}
		out = append(out, Entry[T]{Key: node.Content[i].Value, Value: v})
	}
	*m = out
	return nil
}

// Get returns the value stored under key.
func (m OrderedMap[T]) Get(key string) (T, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	var zero T
	return zero, false
}

func (m OrderedMap[T]) Keys() []string {
	keys := make([]string, len(m))
	for i, e := range m {
		keys[i] = e.Key
	}
	return keys
}
