package theme

import (
	"sync/atomic"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
)

var _ ports.ThemeProvider = (*Provider)(nil)

// Provider hands out the active token table. Reloads swap the whole table;
// a table is never modified after it has been published.
type Provider struct {
	current atomic.Pointer[domain.Theme]
}

// NewProvider creates a provider serving t, or the built-in table when t is nil.
func NewProvider(t *domain.Theme) *Provider {
	if t == nil {
		t = Default()
	}
	p := &Provider{}
	p.current.Store(t)
	return p
}

// Current returns the active table.
func (p *Provider) Current() *domain.Theme {
	return p.current.Load()
}

// Reload loads the token file at path and publishes it. On error the previous
// table stays active.
func (p *Provider) Reload(path string) error {
	t, err := LoadFile(path)
	if err != nil {
		return err
	}
	p.current.Store(t)
	return nil
}
