// Package normalization maps loosely written configuration strings onto typed enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T ~string] struct {
	name      string
	values    map[string]T
	validKeys []string // Cached for error messages
}

// NewNormalizer creates a normalizer named after the setting it parses. Keys are
// normalized the same way as input.
func NewNormalizer[T ~string](name string, values ...T) *Normalizer[T] {
	n := &Normalizer[T]{name: name, values: make(map[string]T, len(values))}
	for _, v := range values {
		key := Clean(string(v))
		n.values[key] = v
		n.validKeys = append(n.validKeys, key)
	}
	sort.Strings(n.validKeys)
	return n
}

// Clean is the normalization applied to every key and input: trimmed and lower-cased.
func Clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Parse converts raw to the enum value, or reports the valid options.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if v, ok := n.values[Clean(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", n.name, raw, n.validKeys)
}

// Valid reports whether raw names a known value.
func (n *Normalizer[T]) Valid(raw string) bool {
	_, ok := n.values[Clean(raw)]
	return ok
}

// Keys returns all valid normalized keys, sorted.
func (n *Normalizer[T]) Keys() []string {
	out := make([]string, len(n.validKeys))
	copy(out, n.validKeys)
	return out
}
