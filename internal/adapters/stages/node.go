package stages

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lumen/internal/core/ports"
)

// NodeID is the unique identifier for the stage factory Graft node.
const NodeID graft.ID = "adapter.stages"

func init() {
	graft.Register(graft.Node[ports.StageFactory]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StageFactory, error) {
			return NewFactory(), nil
		},
	})
}
