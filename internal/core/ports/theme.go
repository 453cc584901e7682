package ports

import "go.trai.ch/lumen/internal/core/domain"

// ThemeProvider is the read accessor for the design-token table.
//
//go:generate mockgen -source=theme.go -destination=mocks/mock_theme.go -package=mocks
type ThemeProvider interface {
	// Current returns the active table. The returned value is never mutated.
	Current() *domain.Theme

	// Reload replaces the active table with the token file at path. On error
	// the previous table stays active.
	Reload(path string) error
}
