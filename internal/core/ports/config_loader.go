package ports

import "go.trai.ch/lumen/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds lumen.yaml at or above cwd and returns the project it describes.
	// When no file exists, the built-in css and watch tasks rooted at cwd are returned.
	Load(cwd string) (*domain.Project, error)
}
