// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/lumen/internal/core/domain"
)

// Stage is one transform in the stylesheet pipeline. It receives the output of
// the previous stage and returns the input of the next one.
//
//go:generate mockgen -source=stage.go -destination=mocks/mock_stage.go -package=mocks
type Stage interface {
	// ID returns the identifier the stage was built from.
	ID() domain.StageID

	// Transform rewrites src. name is the source file name, used in diagnostics only.
	Transform(ctx context.Context, name string, src []byte) ([]byte, error)
}

// StageFactory builds stages from their specs.
type StageFactory interface {
	// New returns the stage for spec. Unknown identifiers fail with domain.ErrUnknownStage.
	New(spec domain.StageSpec) (Stage, error)
}
