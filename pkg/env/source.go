package env

import (
	"strings"

	"github.com/ferrost/appkit/pkg/contracts"
)

// MapSource is a named, map-backed property source. Nested maps are
// addressed with dotted paths.
type MapSource struct {
	name   string
	values map[string]any
}

var _ contracts.PropertySource = (*MapSource)(nil)

func NewMapSource(name string, values map[string]any) *MapSource {
	if values == nil {
		values = make(map[string]any)
	}
	return &MapSource{name: name, values: values}
}

func (s *MapSource) Name() string {
	return s.name
}

func (s *MapSource) Lookup(key string) (any, bool) {
	return findPath(s.values, key)
}

func findPath(values map[string]any, path string) (any, bool) {
	var current any = values
	for _, k := range strings.Split(path, ".") {
		switch cur := current.(type) {
		case map[string]any:
			next, ok := cur[k]
			if !ok {
				return nil, false
			}
			current = next
		case map[any]any:
			next, ok := cur[k]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

func setPath(m map[string]any, key string, value any) {
	keys := strings.Split(key, ".")
	last := len(keys) - 1

	current := m
	for i, k := range keys {
		if i == last {
			current[k] = value
			continue
		}
		next, ok := current[k].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[k] = next
		}
		current = next
	}
}
