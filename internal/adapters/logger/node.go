package logger

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lumen/internal/adapters/detector"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/lumen/internal/ui/output"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{detector.NodeID},
		Run: func(ctx context.Context) (ports.Logger, error) {
			env, err := graft.Dep[detector.Environment](ctx)
			if err != nil {
				return nil, err
			}
			return New(output.Profile(env.ColorStderr())), nil
		},
	})
}
