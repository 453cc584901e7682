// Package fs implements the filesystem adapters: input resolution, content
// hashing and atomic output writes.
package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// Resolver implements the InputResolver interface using filepath.Glob.
type Resolver struct{}

// NewResolver creates a new Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// ResolveInputs resolves the given input patterns to a list of concrete file paths.
// A pattern without glob characters must name an existing file; a glob may
// match nothing. Directories are never returned.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	uniquePaths := make(map[string]struct{})

	for _, input := range inputs {
		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, input)
		}

		matches, err := filepath.Glob(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", path)
		}

		if len(matches) == 0 && !hasMeta(input) {
			return nil, zerr.With(zerr.Wrap(os.ErrNotExist, domain.ErrSourceReadFailed.Error()), "path", path)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "path", match)
			}
			if info.IsDir() {
				continue
			}
			uniquePaths[match] = struct{}{}
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

// StaticBase returns the directory part of pattern before its first glob
// meta character.
func StaticBase(pattern string) string {
	i := strings.IndexAny(pattern, `*?[{\`)
	if i < 0 {
		return filepath.Dir(pattern)
	}
	return filepath.Dir(pattern[:i+1])
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, `*?[\`)
}
