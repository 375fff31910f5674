// Package snapshot provides helpers for reading the plain nested-mapping form
// the engine's entities serialize to. Values round-tripped through JSON come
// back as float64, so every numeric read has to tolerate both int and float.
package snapshot

// Map is the serialized form of an engine entity.
type Map = map[string]any

// Int reads an integer field, accepting int, int64, or float64.
func Int(m Map, key string) int {
	switch n := m[key].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Float reads a float field, accepting float64, int, or int64.
func Float(m Map, key string) float64 {
	switch n := m[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}

// String reads a string field; missing or mistyped values yield "".
func String(m Map, key string) string {
	s, _ := m[key].(string)
	return s
}

// Bool reads a boolean field; missing or mistyped values yield false.
func Bool(m Map, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// MapSlice reads a field holding a sequence of nested maps. Both []Map and
// []any element forms are accepted.
func MapSlice(m Map, key string) []Map {
	switch v := m[key].(type) {
	case []Map:
		return v
	case []any:
		out := make([]Map, 0, len(v))
		for _, e := range v {
			if em, ok := e.(Map); ok {
				out = append(out, em)
			}
		}
		return out
	default:
		return nil
	}
}

// Nested reads a field holding a single nested map.
func Nested(m Map, key string) Map {
	n, _ := m[key].(Map)
	return n
}

// StringSlice reads a field holding a sequence of strings.
func StringSlice(m Map, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
