// Package stages implements the stylesheet transforms a pipeline is built
// from. Each stage parses its input, rewrites the tree and prints it again, so
// stages can be chained in any order and share no state.
package stages

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/lumen/internal/adapters/stylesheet"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.StageFactory = (*Factory)(nil)

type rewriter func(sheet *stylesheet.Sheet)

type constructor func(opts options) (rewriter, error)

var constructors = map[domain.StageID]constructor{
	domain.StageAutoprefixer:     newAutoprefixer,
	domain.StagePresetEnv:        newPresetEnv,
	domain.StageNesting:          newNesting,
	domain.StageCustomMedia:      newCustomMedia,
	domain.StageCustomProperties: newCustomProperties,
}

// Factory builds stages from their specs.
type Factory struct{}

// NewFactory creates a new Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// New returns the stage for spec. Option types are checked here so a bad
// configuration fails before any file is read.
func (f *Factory) New(spec domain.StageSpec) (ports.Stage, error) {
	build, ok := constructors[spec.ID]
	if !ok {
		return nil, zerr.With(domain.ErrUnknownStage, "stage", string(spec.ID))
	}
	rewrite, err := build(options{id: spec.ID, raw: spec.Options})
	if err != nil {
		return nil, err
	}
	return &stage{id: spec.ID, rewrite: rewrite}, nil
}

// IDs returns the identifiers of every available stage, sorted.
func IDs() []domain.StageID {
	return slices.Sorted(maps.Keys(constructors))
}

type stage struct {
	id      domain.StageID
	rewrite rewriter
}

func (s *stage) ID() domain.StageID {
	return s.id
}

func (s *stage) Transform(ctx context.Context, name string, src []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sheet, err := stylesheet.Parse(name, src)
	if err != nil {
		return nil, err
	}
	s.rewrite(sheet)
	return stylesheet.Print(sheet), nil
}
