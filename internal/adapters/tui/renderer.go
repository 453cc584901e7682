package tui

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer drives a Model from build spans. It implements ports.Renderer.
type Renderer struct {
	program *tea.Program
	started atomic.Bool
	done    chan struct{}
	err     error
}

// NewRenderer creates a Renderer for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		done:    make(chan struct{}),
	}
}

// Start launches the program in the background.
func (r *Renderer) Start(_ context.Context) error {
	if !r.started.CompareAndSwap(false, true) {
		return nil
	}
	go func() {
		defer close(r.done)
		_, r.err = r.program.Run()
	}()
	return nil
}

// Stop quits the program and waits for it to restore the terminal. A program
// killed by its context is not an error.
func (r *Renderer) Stop() error {
	if !r.started.Load() {
		return nil
	}
	r.program.Quit()
	<-r.done
	if errors.Is(r.err, tea.ErrProgramKilled) {
		return nil
	}
	return r.err
}

// Done is closed once the program has exited, including when the user quits.
func (r *Renderer) Done() <-chan struct{} {
	return r.done
}

// OnPlanEmit implements ports.Renderer.
func (r *Renderer) OnPlanEmit(task string, files []string) {
	r.program.Send(PlanMsg{Task: task, Files: files})
}

// OnTaskStart implements ports.Renderer.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(SpanStartMsg{SpanID: spanID, ParentID: parentID, Name: name, StartTime: startTime})
}

// OnTaskLog implements ports.Renderer.
func (r *Renderer) OnTaskLog(spanID string, data []byte) {
	r.program.Send(SpanLogMsg{SpanID: spanID, Data: append([]byte(nil), data...)})
}

// OnTaskComplete implements ports.Renderer.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(SpanCompleteMsg{SpanID: spanID, EndTime: endTime, Err: err})
}
