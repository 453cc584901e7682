package theme

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lumen/internal/core/ports"
)

// NodeID is the unique identifier for the theme provider Graft node.
const NodeID graft.ID = "adapter.theme"

func init() {
	graft.Register(graft.Node[ports.ThemeProvider]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ThemeProvider, error) {
			return NewProvider(nil), nil
		},
	})
}
