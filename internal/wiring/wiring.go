// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/lumen/internal/adapters/cas"
	_ "go.trai.ch/lumen/internal/adapters/config"
	_ "go.trai.ch/lumen/internal/adapters/detector"
	_ "go.trai.ch/lumen/internal/adapters/fs"
	_ "go.trai.ch/lumen/internal/adapters/logger"
	_ "go.trai.ch/lumen/internal/adapters/stages"
	_ "go.trai.ch/lumen/internal/adapters/theme"
	_ "go.trai.ch/lumen/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/lumen/internal/app"
)
