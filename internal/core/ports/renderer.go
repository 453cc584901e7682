package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for build progress output.
// It decouples span collection from presentation.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer.
	Start(ctx context.Context) error

	// Stop flushes buffered output.
	Stop() error

	// OnPlanEmit is called once the input files of a build are known.
	OnPlanEmit(task string, files []string)

	// OnTaskStart is called when a span begins.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskLog is called when a span emits output.
	OnTaskLog(spanID string, data []byte)

	// OnTaskComplete is called when a span ends. err is nil on success.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
