// Package placeholder implements the layered placeholder map and
// {{key}} template rendering of spec.md §4.1.
package placeholder

import "strings"

// Map is a flat string→string placeholder table. Keys are looked up
// case-sensitively; an unknown key renders as an empty string.
type Map map[string]string

// New returns an empty Map.
func New() Map { return make(Map) }

// Merge layers the given maps in order, returning a new Map where
// values from later layers win on key collision. No input is mutated.
func Merge(layers ...Map) Map {
	out := make(Map)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// With returns a copy of m with key set to value, leaving m untouched.
func (m Map) With(key, value string) Map {
	out := make(Map, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}

// Render substitutes every {{key}} occurrence in template with the
// mapped value, using an empty string for unrecognized keys. Templates
// with no {{...}} tokens are returned unchanged (spec.md §8, invariant 5).
func Render(template string, placeholders Map) string {
	var b strings.Builder
	rest := template
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			b.WriteString(rest)
			break
		}
		end := strings.Index(rest[start:], "}}")
		if end == -1 {
			b.WriteString(rest)
			break
		}
		end += start
		b.WriteString(rest[:start])
		key := strings.TrimSpace(rest[start+2 : end])
		b.WriteString(placeholders[key])
		rest = rest[end+2:]
	}
	return b.String()
}
