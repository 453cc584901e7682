package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/lumen/internal/adapters/cas"
	"go.trai.ch/lumen/internal/adapters/config"
	"go.trai.ch/lumen/internal/adapters/detector"
	"go.trai.ch/lumen/internal/adapters/fs"
	"go.trai.ch/lumen/internal/adapters/logger"
	"go.trai.ch/lumen/internal/adapters/stages"
	"go.trai.ch/lumen/internal/adapters/theme"
	"go.trai.ch/lumen/internal/adapters/watcher"
	"go.trai.ch/lumen/internal/core/ports"
)

// NodeID is the unique identifier for the application Graft node.
const NodeID graft.ID = "app.components"

// Components groups what the entry point needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			cas.NodeID,
			fs.HasherNodeID,
			fs.ResolverNodeID,
			stages.NodeID,
			fs.WriterNodeID,
			watcher.NodeID,
			theme.NodeID,
			detector.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			loader, err := graft.Dep[ports.ConfigLoader](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[ports.InputResolver](ctx)
			if err != nil {
				return nil, err
			}
			factory, err := graft.Dep[ports.StageFactory](ctx)
			if err != nil {
				return nil, err
			}
			writer, err := graft.Dep[ports.FileWriter](ctx)
			if err != nil {
				return nil, err
			}
			w, err := graft.Dep[ports.Watcher](ctx)
			if err != nil {
				return nil, err
			}
			tp, err := graft.Dep[ports.ThemeProvider](ctx)
			if err != nil {
				return nil, err
			}
			env, err := graft.Dep[detector.Environment](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{
				App:    New(loader, log, store, hasher, resolver, factory, writer, w, tp).WithEnvironment(env),
				Logger: log,
			}, nil
		},
	})
}
