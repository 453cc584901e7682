package domain

import (
	"iter"
	"slices"

	"go.trai.ch/zerr"
)

// Token categories exposed to the utility-class generator.
const (
	CategoryMaxWidth   = "maxWidth"
	CategoryFontFamily = "fontFamily"
	CategoryColors     = "colors"
)

// Token is a single key/value entry of a category. Description carries the
// palette note attached to the entry, if any.
type Token[V any] struct {
	Key         string
	Value       V
	Description string
}

// TokenSet is an ordered, read-only mapping from token key to value.
//
// Duplicate keys follow object-literal semantics: the key keeps the position of
// its first occurrence and the later value shadows the earlier one. Every
// shadowed key is recorded and reported by Duplicates.
type TokenSet[V any] struct {
	entries    []Token[V]
	index      map[string]int
	duplicates []string
}

// NewTokenSet builds a set from entries in declaration order.
func NewTokenSet[V any](entries ...Token[V]) TokenSet[V] {
	s := TokenSet[V]{
		entries: make([]Token[V], 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if i, ok := s.index[e.Key]; ok {
			s.entries[i] = e
			s.duplicates = append(s.duplicates, e.Key)
			continue
		}
		s.index[e.Key] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s
}

// Lookup returns the value for key. A missing key is not an error; ok is false.
// Callers must not modify returned slices.
func (s TokenSet[V]) Lookup(key string) (V, bool) {
	i, ok := s.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return s.entries[i].Value, true
}

// Entry returns the full token for key.
func (s TokenSet[V]) Entry(key string) (Token[V], bool) {
	i, ok := s.index[key]
	if !ok {
		return Token[V]{}, false
	}
	return s.entries[i], true
}

// Len returns the number of distinct keys.
func (s TokenSet[V]) Len() int {
	return len(s.entries)
}

// Keys returns the keys in declaration order.
func (s TokenSet[V]) Keys() []string {
	keys := make([]string, len(s.entries))
	for i, e := range s.entries {
		keys[i] = e.Key
	}
	return keys
}

// All iterates over key/value pairs in declaration order.
func (s TokenSet[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, e := range s.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Entries returns a copy of the tokens in declaration order.
func (s TokenSet[V]) Entries() []Token[V] {
	return slices.Clone(s.entries)
}

// Duplicates returns every key that was declared more than once, in the order
// the shadowing declarations appeared.
func (s TokenSet[V]) Duplicates() []string {
	return slices.Clone(s.duplicates)
}

// Theme is the design-token table consumed by the utility-class generator.
type Theme struct {
	MaxWidth   TokenSet[string]
	FontFamily TokenSet[[]string]
	Colors     TokenSet[string]
	// Extend is always present and, for the built-in table, empty.
	Extend map[string]any
}

// Categories returns the category names in export order.
func Categories() []string {
	return []string{CategoryMaxWidth, CategoryFontFamily, CategoryColors}
}

// HasCategory reports whether name is a known token category.
func HasCategory(name string) bool {
	return slices.Contains(Categories(), name)
}

// Lookup resolves a token by category and key. Font stacks are returned as a
// fresh slice.
func (t *Theme) Lookup(category, key string) (any, bool) {
	switch category {
	case CategoryMaxWidth:
		return found(t.MaxWidth.Lookup(key))
	case CategoryFontFamily:
		v, ok := t.FontFamily.Lookup(key)
		if !ok {
			return nil, false
		}
		return slices.Clone(v), true
	case CategoryColors:
		return found(t.Colors.Lookup(key))
	default:
		return nil, false
	}
}

// found drops the zero value of a failed lookup so callers see a nil any.
func found(v string, ok bool) (any, bool) {
	if !ok {
		return nil, false
	}
	return v, true
}

// Keys returns the keys of a category in declaration order.
func (t *Theme) Keys(category string) ([]string, error) {
	switch category {
	case CategoryMaxWidth:
		return t.MaxWidth.Keys(), nil
	case CategoryFontFamily:
		return t.FontFamily.Keys(), nil
	case CategoryColors:
		return t.Colors.Keys(), nil
	default:
		return nil, zerr.With(ErrUnknownTokenCategory, "category", category)
	}
}

// Validate fails on the first category that declared a key twice.
func (t *Theme) Validate() error {
	checks := []struct {
		category string
		dups     []string
	}{
		{CategoryMaxWidth, t.MaxWidth.Duplicates()},
		{CategoryFontFamily, t.FontFamily.Duplicates()},
		{CategoryColors, t.Colors.Duplicates()},
	}
	for _, c := range checks {
		if len(c.dups) > 0 {
			err := zerr.With(ErrDuplicateToken, "category", c.category)
			return zerr.With(err, "key", c.dups[0])
		}
	}
	return nil
}
