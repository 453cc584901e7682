// Package pipeline runs build tasks: it resolves the input stylesheets, pushes
// each one through the task's stage chain and writes one output per input.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options configures a single build.
type Options struct {
	// NoCache rebuilds every file even when its build info is current.
	NoCache bool
}

// Runner executes build tasks.
type Runner struct {
	resolver ports.InputResolver
	factory  ports.StageFactory
	hasher   ports.Hasher
	store    ports.BuildInfoStore
	writer   ports.FileWriter
	tracer   ports.Tracer
	logger   ports.Logger

	parallelism int
}

// NewRunner creates a Runner that processes up to runtime.NumCPU files at once.
func NewRunner(
	resolver ports.InputResolver,
	factory ports.StageFactory,
	hasher ports.Hasher,
	store ports.BuildInfoStore,
	writer ports.FileWriter,
	tracer ports.Tracer,
	logger ports.Logger,
) *Runner {
	return &Runner{
		resolver:    resolver,
		factory:     factory,
		hasher:      hasher,
		store:       store,
		writer:      writer,
		tracer:      tracer,
		logger:      logger,
		parallelism: runtime.NumCPU(),
	}
}

// WithParallelism sets how many files are processed concurrently. Values
// below one are ignored.
func (r *Runner) WithParallelism(n int) *Runner {
	if n > 0 {
		r.parallelism = n
	}
	return r
}

// build is the state of one Build call.
type build struct {
	r           *Runner
	root        string
	task        *domain.BuildTask
	stages      []ports.Stage
	fingerprint string
	outputDir   string
	opts        Options
}

// Build runs task under root and reports what happened to every input.
// Files are independent: they are processed in parallel and the first failure
// cancels the rest. Every file that failed before the cancellation reached it
// is reported, write failures first.
func (r *Runner) Build(ctx context.Context, root string, task *domain.BuildTask, opts Options) (*domain.BuildReport, error) {
	name := task.Name.String()

	ctx, span := r.tracer.Start(ctx, name)
	defer span.End()

	report, err := r.run(ctx, root, task, opts)
	if err != nil {
		err = zerr.With(err, "task", name)
		span.RecordError(err)
		return nil, err
	}

	span.SetAttribute("lumen.files", len(report.Files))
	span.SetAttribute("lumen.built", report.Built())
	return report, nil
}

func (r *Runner) run(ctx context.Context, root string, task *domain.BuildTask, opts Options) (*domain.BuildReport, error) {
	sources, err := r.resolver.ResolveInputs(task.Inputs, root)
	if err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, zerr.With(domain.ErrNoSourceFiles, "inputs", task.Inputs)
	}

	stages := make([]ports.Stage, 0, len(task.Stages))
	for _, spec := range task.Stages {
		stage, err := r.factory.New(spec)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
	}

	b := &build{
		r:           r,
		root:        root,
		task:        task,
		stages:      stages,
		fingerprint: task.Fingerprint(),
		outputDir:   absolute(root, task.OutputDir),
		opts:        opts,
	}

	if err := r.writer.EnsureDir(b.outputDir); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "dir", b.outputDir)
	}

	planned := make([]string, len(sources))
	for i, src := range sources {
		planned[i] = b.rel(src)
	}
	r.tracer.EmitPlan(ctx, task.Name.String(), planned)

	results := make([]domain.FileResult, len(sources))
	errs := make([]error, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)
	for i, src := range sources {
		g.Go(func() error {
			res, err := b.file(gctx, src)
			if err != nil {
				errs[i] = err
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fileErrors(ctx, errs, err)
	}

	return &domain.BuildReport{Task: task.Name.String(), Files: results}, nil
}

// fileErrors joins the failures of one build. Write failures come first.
// Cancellations caused by a failing sibling are dropped, so only the files
// that actually broke are reported. first is the error errgroup returned.
func fileErrors(ctx context.Context, errs []error, first error) error {
	var writes, others []error
	for _, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrOutputWriteFailed):
			writes = append(writes, err)
		case ctx.Err() == nil && errors.Is(err, context.Canceled):
		default:
			others = append(others, err)
		}
	}

	all := append(writes, others...)
	switch len(all) {
	case 0:
		return first
	case 1:
		return all[0]
	default:
		return errors.Join(all...)
	}
}

// file builds one source stylesheet.
func (b *build) file(ctx context.Context, src string) (domain.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.FileResult{}, err
	}

	base := filepath.Base(src)
	out := filepath.Join(b.outputDir, base)
	res := domain.FileResult{Source: b.rel(src), Output: b.rel(out)}

	ctx, span := b.r.tracer.Start(ctx, b.task.Name.String()+":"+base)
	defer span.End()

	content, err := os.ReadFile(src) //nolint:gosec // Path comes from the resolver
	if err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrSourceReadFailed.Error()), "file", res.Source)
		span.RecordError(err)
		return res, err
	}

	inputHash := b.r.hasher.ComputeInputHash(b.fingerprint, base, content)
	if !b.opts.NoCache && b.current(res.Output, out, inputHash) {
		res.Cached = true
		span.SetAttribute("lumen.cached", true)
		_, _ = fmt.Fprintf(span, "%s is up to date\n", res.Output)
		return res, nil
	}

	data := content
	for _, stage := range b.stages {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		data, err = stage.Transform(ctx, base, data)
		if err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrTransformFailed.Error()), "stage", string(stage.ID()))
			err = zerr.With(err, "file", res.Source)
			span.RecordError(err)
			return res, err
		}
	}

	if err := b.r.writer.WriteFile(out, data); err != nil {
		err = zerr.With(errors.Join(domain.ErrOutputWriteFailed, err), "file", res.Output)
		span.RecordError(err)
		return res, err
	}
	_, _ = fmt.Fprintf(span, "wrote %s\n", res.Output)

	b.record(res, inputHash, out)
	return res, nil
}

// current reports whether the stored build info for output still describes
// the file on disk for this input hash.
func (b *build) current(key, path, inputHash string) bool {
	info, err := b.r.store.Get(b.root, key)
	if err != nil {
		b.r.logger.Warn(fmt.Sprintf("ignoring build info for %s: %v", key, err))
		return false
	}
	if info == nil || info.InputHash != inputHash {
		return false
	}

	outputHash, err := b.r.hasher.ComputeFileHash(path)
	if err != nil {
		return false
	}
	return info.OutputHash == formatHash(outputHash)
}

// record stores the build info for a freshly written output. A store failure
// only costs a rebuild next time, so it is logged and otherwise ignored.
func (b *build) record(res domain.FileResult, inputHash, path string) {
	outputHash, err := b.r.hasher.ComputeFileHash(path)
	if err != nil {
		b.r.logger.Warn(fmt.Sprintf("not caching %s: %v", res.Output, err))
		return
	}

	err = b.r.store.Put(b.root, domain.BuildInfo{
		Output:     res.Output,
		Source:     res.Source,
		InputHash:  inputHash,
		OutputHash: formatHash(outputHash),
		Timestamp:  time.Now(),
	})
	if err != nil {
		b.r.logger.Warn(fmt.Sprintf("not caching %s: %v", res.Output, err))
	}
}

// rel returns path relative to the build root in slash form, or path itself
// when it lies outside the root.
func (b *build) rel(path string) string {
	rel, err := filepath.Rel(b.root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func formatHash(h uint64) string {
	return fmt.Sprintf("%016x", h)
}
