// Package watchloop keeps a build task up to date while its sources change.
package watchloop

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gobwas/glob"
	"go.trai.ch/lumen/internal/adapters/fs"
	"go.trai.ch/lumen/internal/adapters/watcher"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/lumen/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// Builder runs a single build. *pipeline.Runner satisfies it.
type Builder interface {
	Build(ctx context.Context, root string, task *domain.BuildTask, opts pipeline.Options) (*domain.BuildReport, error)
}

// Options configures a watch session.
type Options struct {
	// Initial runs one build before waiting for changes.
	Initial bool
	// NoCache bypasses the build cache for every rebuild.
	NoCache bool
}

// Loop watches the globs of a watch task and rebuilds its target.
type Loop struct {
	watcher ports.Watcher
	builder Builder
	logger  ports.Logger
	theme   ports.ThemeProvider
	window  time.Duration
}

// New creates a Loop with the default debounce window.
func New(w ports.Watcher, b Builder, logger ports.Logger, theme ports.ThemeProvider) *Loop {
	return &Loop{
		watcher: w,
		builder: b,
		logger:  logger,
		theme:   theme,
		window:  watcher.DefaultDebounceWindow,
	}
}

// WithDebounce sets the debounce window.
func (l *Loop) WithDebounce(window time.Duration) *Loop {
	l.window = window
	return l
}

// session is the state of one Run call.
type session struct {
	l         *Loop
	root      string
	task      *domain.BuildTask
	globs     []glob.Glob
	themePath string
	opts      Options
	requests  chan struct{}
}

// Run blocks until ctx is cancelled or a rebuild fails in a way that cannot
// heal on the next edit. Builds run one at a time; changes that arrive while a
// build is running are folded into a single follow-up build.
//
// Cancellation returns nil. A failed output write returns the error. Every
// other build error is logged and the loop keeps waiting for the next change.
//
// Edits to the project's token file are validated and logged as they land.
// Builds do not depend on the token table, so they never rebuild the target.
func (l *Loop) Run(ctx context.Context, project *domain.Project, watch *domain.WatchTask, opts Options) error {
	task, ok := project.BuildTask(watch.Target.String())
	if !ok {
		return zerr.With(domain.ErrTaskNotFound, "task", watch.Target.String())
	}

	s := &session{
		l:         l,
		root:      project.Root(),
		task:      task,
		themePath: project.ThemePath(),
		opts:      opts,
		requests:  make(chan struct{}, 1),
	}

	for _, pattern := range watch.Globs {
		g, err := glob.Compile(filepath.ToSlash(pattern), '/')
		if err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "glob", pattern)
		}
		s.globs = append(s.globs, g)
	}

	dirs := s.dirs(watch.Globs)
	if err := l.watcher.Start(ctx, dirs...); err != nil {
		return err
	}

	debouncer := watcher.NewDebouncer(l.window, s.changed)
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for ev := range l.watcher.Events() {
			if s.relevant(ev.Path) {
				debouncer.Add(ev.Path)
			}
		}
	}()
	defer func() {
		_ = l.watcher.Stop()
		<-pumpDone
		debouncer.Stop()
	}()

	l.logger.Info(fmt.Sprintf("watching %s for changes", strings.Join(watch.Globs, ", ")))

	if opts.Initial {
		s.request()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.requests:
			if err := s.rebuild(ctx); err != nil {
				return err
			}
		}
	}
}

// dirs returns the distinct directories to watch: the static base of every
// glob plus the directory of the token file.
func (s *session) dirs(globs []string) []string {
	dirs := make([]string, 0, len(globs)+1)
	for _, pattern := range globs {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(s.root, pattern)
		}
		dirs = append(dirs, fs.StaticBase(pattern))
	}
	if s.themePath != "" {
		dirs = append(dirs, filepath.Dir(s.themePath))
	}
	slices.Sort(dirs)
	return slices.Compact(dirs)
}

// relevant reports whether a change to path matters to the session.
func (s *session) relevant(path string) bool {
	return s.isTheme(path) || s.matches(path)
}

func (s *session) matches(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range s.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (s *session) isTheme(path string) bool {
	return s.themePath != "" && filepath.Clean(path) == filepath.Clean(s.themePath)
}

// changed receives each debounced batch of paths.
func (s *session) changed(paths []string) {
	rebuild := false
	for _, path := range paths {
		if s.isTheme(path) {
			s.reloadTheme()
		}
		if s.matches(path) {
			rebuild = true
		}
	}
	if rebuild {
		s.request()
	}
}

// reloadTheme re-reads the token file so a broken edit is reported while the
// session runs. A failed reload keeps the previous table.
func (s *session) reloadTheme() {
	if err := s.l.theme.Reload(s.themePath); err != nil {
		s.l.logger.Error(err)
		return
	}
	s.l.logger.Info("reloaded design tokens from " + s.themePath)
}

// request queues a rebuild unless one is already pending.
func (s *session) request() {
	select {
	case s.requests <- struct{}{}:
	default:
	}
}

func (s *session) rebuild(ctx context.Context) error {
	report, err := s.l.builder.Build(ctx, s.root, s.task, pipeline.Options{NoCache: s.opts.NoCache})
	switch {
	case err == nil:
		s.l.logger.Info(fmt.Sprintf("rebuilt %d of %d stylesheet(s)", report.Built(), len(report.Files)))
		return nil
	case ctx.Err() != nil:
		return nil
	case errors.Is(err, domain.ErrOutputWriteFailed):
		return err
	default:
		s.l.logger.Error(err)
		return nil
	}
}
