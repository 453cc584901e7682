// Package app implements the application layer for lumen.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.trai.ch/lumen/internal/adapters/detector"
	"go.trai.ch/lumen/internal/adapters/linear"
	"go.trai.ch/lumen/internal/adapters/telemetry"
	"go.trai.ch/lumen/internal/adapters/theme"
	"go.trai.ch/lumen/internal/adapters/tui"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/lumen/internal/engine/pipeline"
	"go.trai.ch/lumen/internal/engine/watchloop"
	"go.trai.ch/lumen/internal/ui/output"
	"go.trai.ch/zerr"
)

const tracerName = "lumen"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	store        ports.BuildInfoStore
	hasher       ports.Hasher
	resolver     ports.InputResolver
	factory      ports.StageFactory
	writer       ports.FileWriter
	watcher      ports.Watcher
	theme        ports.ThemeProvider

	env        detector.Environment
	teaOptions []tea.ProgramOption

	stdout      io.Writer
	stderr      io.Writer
	debounce    time.Duration
	parallelism int
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	store ports.BuildInfoStore,
	hasher ports.Hasher,
	resolver ports.InputResolver,
	factory ports.StageFactory,
	writer ports.FileWriter,
	w ports.Watcher,
	tp ports.ThemeProvider,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		store:        store,
		hasher:       hasher,
		resolver:     resolver,
		factory:      factory,
		writer:       writer,
		watcher:      w,
		theme:        tp,
		stdout:       os.Stdout,
		stderr:       os.Stderr,
	}
}

// WithOutput redirects build progress output.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithEnvironment sets the detected terminal environment. The zero value
// describes redirected streams: linear output without color.
func (a *App) WithEnvironment(env detector.Environment) *App {
	a.env = env
	return a
}

// WithTeaOptions appends options for the interactive status view.
// This is primarily used for testing to disable input/output.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// WithDebounce overrides the watch debounce window.
// This is primarily used for testing.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// WithParallelism bounds the number of files built at once.
func (a *App) WithParallelism(n int) *App {
	a.parallelism = n
	return a
}

// SetJSONLogs switches the logger to JSON output if it supports it.
func (a *App) SetJSONLogs(enable bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(enable)
	}
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	// NoCache rebuilds every stylesheet even when its build info is current.
	NoCache bool
	// Preset replaces the stages of a build task with a named preset.
	// Watch tasks ignore it.
	Preset string
	// Initial builds once before a watch task waits for changes.
	Initial bool
	// OutputMode is auto, tui, linear or ci. Auto uses the status view for
	// watch tasks on an interactive terminal and linear output otherwise.
	OutputMode string
}

// Run executes the named build or watch task.
func (a *App) Run(ctx context.Context, name string, opts RunOptions) error {
	mode, err := detector.ParseMode(opts.OutputMode)
	if err != nil {
		return err
	}

	project, err := a.load()
	if err != nil {
		return err
	}

	if task, ok := project.BuildTask(name); ok {
		return a.build(ctx, project, task, a.env.ResolveMode(mode, false), opts)
	}
	if watch, ok := project.WatchTask(name); ok {
		return a.watch(ctx, project, watch, a.env.ResolveMode(mode, true), opts)
	}

	err = zerr.With(domain.ErrTaskNotFound, "task", name)
	available := append(project.BuildTaskNames(), project.WatchTaskNames()...)
	return zerr.With(err, "available", strings.Join(available, ", "))
}

func (a *App) build(
	ctx context.Context,
	project *domain.Project,
	task *domain.BuildTask,
	mode detector.OutputMode,
	opts RunOptions,
) error {
	if opts.Preset != "" {
		preset, ok := domain.LookupPreset(opts.Preset)
		if !ok {
			return zerr.With(domain.ErrUnknownPreset, "preset", opts.Preset)
		}
		task = &domain.BuildTask{
			Name:      task.Name,
			Inputs:    task.Inputs,
			OutputDir: task.OutputDir,
			Preset:    preset.Name,
			Stages:    preset.Stages,
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer, tracer, err := a.startTelemetry(ctx, cancel, mode)
	if err != nil {
		return err
	}

	report, err := a.newRunner(tracer).Build(ctx, project.Root(), task, pipeline.Options{NoCache: opts.NoCache})
	a.stopTelemetry(ctx, renderer, tracer)
	if err != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, err)
	}

	a.logger.Info(fmt.Sprintf("built %d of %d stylesheet(s) into %s",
		report.Built(), len(report.Files), task.OutputDir))
	return nil
}

func (a *App) watch(
	ctx context.Context,
	project *domain.Project,
	watch *domain.WatchTask,
	mode detector.OutputMode,
	opts RunOptions,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	renderer, tracer, err := a.startTelemetry(ctx, cancel, mode)
	if err != nil {
		return err
	}
	defer a.stopTelemetry(ctx, renderer, tracer)

	loop := watchloop.New(a.watcher, a.newRunner(tracer), a.logger, a.theme)
	if a.debounce > 0 {
		loop = loop.WithDebounce(a.debounce)
	}
	return loop.Run(ctx, project, watch, watchloop.Options{
		Initial: opts.Initial,
		NoCache: opts.NoCache,
	})
}

// startTelemetry creates the progress renderer for mode and a tracer reporting
// to it. Quitting the status view calls cancel, which ends the run.
func (a *App) startTelemetry(
	ctx context.Context,
	cancel context.CancelFunc,
	mode detector.OutputMode,
) (ports.Renderer, *telemetry.OTelTracer, error) {
	var renderer ports.Renderer
	if mode == detector.ModeTUI {
		model := tui.NewModel(a.stderr, output.InteractiveProfile())
		opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(a.stderr)}, a.teaOptions...)
		view := tui.NewRenderer(model, opts...)
		go func() {
			select {
			case <-view.Done():
				cancel()
			case <-ctx.Done():
			}
		}()
		renderer = view
	} else {
		renderer = linear.NewRenderer(a.stdout, a.stderr, output.Profile(a.env.ColorStderr()))
	}

	if err := renderer.Start(ctx); err != nil {
		return nil, nil, err
	}
	return renderer, telemetry.NewOTelTracer(tracerName).WithRenderer(renderer), nil
}

func (a *App) stopTelemetry(ctx context.Context, renderer ports.Renderer, tracer *telemetry.OTelTracer) {
	if err := tracer.Shutdown(context.WithoutCancel(ctx)); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to shut down tracer: %v", err))
	}
	_ = renderer.Stop()
}

func (a *App) newRunner(tracer ports.Tracer) *pipeline.Runner {
	r := pipeline.NewRunner(a.resolver, a.factory, a.hasher, a.store, a.writer, tracer, a.logger)
	if a.parallelism > 0 {
		r = r.WithParallelism(a.parallelism)
	}
	return r
}

// load reads the project configuration and activates its token file.
func (a *App) load() (*domain.Project, error) {
	project, err := a.configLoader.Load(".")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if path := project.ThemePath(); path != "" {
		if err := a.theme.Reload(path); err != nil {
			return nil, err
		}
	}
	return project, nil
}

// TokensOptions configuration for the Tokens method.
type TokensOptions struct {
	Category string
	Key      string
	// Format exports the whole table as json, yaml or css instead.
	Format string
}

// Tokens prints design tokens to w.
//
// Without a category it lists the categories, with a category its entries,
// and with a key the single value. A key the table does not define fails
// with domain.ErrTokenNotFound.
func (a *App) Tokens(_ context.Context, w io.Writer, opts TokensOptions) error {
	if _, err := a.load(); err != nil {
		return err
	}
	t := a.theme.Current()

	if opts.Format != "" {
		data, err := theme.Encode(opts.Format, t)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	switch {
	case opts.Category == "":
		for _, category := range domain.Categories() {
			keys, _ := t.Keys(category)
			_, _ = fmt.Fprintf(w, "%s (%d)\n", category, len(keys))
		}
	case opts.Key == "":
		keys, err := t.Keys(opts.Category)
		if err != nil {
			return err
		}
		for _, key := range keys {
			v, _ := t.Lookup(opts.Category, key)
			_, _ = fmt.Fprintf(w, "%s: %s\n", key, formatToken(v))
		}
	default:
		if !domain.HasCategory(opts.Category) {
			return zerr.With(domain.ErrUnknownTokenCategory, "category", opts.Category)
		}
		v, ok := t.Lookup(opts.Category, opts.Key)
		if !ok {
			err := zerr.With(domain.ErrTokenNotFound, "category", opts.Category)
			return zerr.With(err, "key", opts.Key)
		}
		_, _ = fmt.Fprintln(w, formatToken(v))
	}
	return nil
}

func formatToken(v any) string {
	if stack, ok := v.([]string); ok {
		return strings.Join(stack, ", ")
	}
	return fmt.Sprint(v)
}

// Presets prints the pipeline presets and their ordered stages to w.
func (a *App) Presets(w io.Writer) {
	for _, p := range domain.Presets() {
		suffix := ""
		if p.Name == domain.DefaultPreset {
			suffix = " (default)"
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", p.Name, suffix)
		for i, s := range p.Stages {
			_, _ = fmt.Fprintf(w, "  %d. %s\n", i+1, domain.Fingerprint([]domain.StageSpec{s}))
		}
	}
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	// CacheOnly keeps the output directories and removes only the build info store.
	CacheOnly bool
}

// Clean removes the build info store and, unless CacheOnly is set, the
// output directories of every build task.
func (a *App) Clean(_ context.Context, options CleanOptions) error {
	project, err := a.configLoader.Load(".")
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	root := project.Root()

	var errs error

	// Helper to remove a directory and log the action
	remove := func(path string, name string) {
		a.logger.Info(fmt.Sprintf("removing %s...", name))
		if err := os.RemoveAll(path); err != nil {
			err = zerr.With(zerr.Wrap(err, domain.ErrFailedToCleanOutput.Error()), "path", path)
			errs = errors.Join(errs, err)
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	remove(filepath.Join(root, domain.DefaultStorePath()), "build info store")

	if options.CacheOnly {
		return errs
	}

	for _, task := range project.BuildTasks() {
		dir := task.OutputDir
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
		rel, err := filepath.Rel(root, dir)
		if err != nil || !filepath.IsLocal(rel) {
			err = zerr.With(domain.ErrFailedToCleanOutput, "path", dir)
			errs = errors.Join(errs, zerr.With(err, "reason", "outside project root"))
			continue
		}
		remove(dir, fmt.Sprintf("%s output %s", task.Name.String(), filepath.ToSlash(rel)))
	}

	return errs
}
