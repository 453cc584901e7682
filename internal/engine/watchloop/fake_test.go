package watchloop_test

import (
	"context"
	"iter"
	"sync"
	"time"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/lumen/internal/engine/pipeline"
)

// fakeWatcher delivers events pushed by the test.
type fakeWatcher struct {
	mu      sync.Mutex
	dirs    []string
	events  chan ports.WatchEvent
	stopped bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent, 16)}
}

func (w *fakeWatcher) Start(_ context.Context, dirs ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dirs = append(w.dirs, dirs...)
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.stopped = true
		close(w.events)
	}
	return nil
}

func (w *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for ev := range w.events {
			if !yield(ev) {
				return
			}
		}
	}
}

func (w *fakeWatcher) emit(path string) {
	w.events <- ports.WatchEvent{Path: path, Operation: ports.OpWrite}
}

func (w *fakeWatcher) watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.dirs...)
}

// fakeBuilder takes buildTime per build and tracks how many builds overlap.
type fakeBuilder struct {
	buildTime time.Duration
	errs      []error

	mu         sync.Mutex
	calls      int
	running    int
	maxRunning int
}

func (b *fakeBuilder) Build(ctx context.Context, _ string, task *domain.BuildTask, _ pipeline.Options) (*domain.BuildReport, error) {
	b.mu.Lock()
	call := b.calls
	b.calls++
	b.running++
	b.maxRunning = max(b.maxRunning, b.running)
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.running--
		b.mu.Unlock()
	}()

	select {
	case <-time.After(b.buildTime):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if call < len(b.errs) && b.errs[call] != nil {
		return nil, b.errs[call]
	}
	return &domain.BuildReport{Task: task.Name.String(), Files: []domain.FileResult{{Source: "css/a.css", Output: "build/a.css"}}}, nil
}

func (b *fakeBuilder) stats() (calls, maxRunning int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls, b.maxRunning
}
