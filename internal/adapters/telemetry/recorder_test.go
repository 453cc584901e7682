package telemetry_test

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// recordingRenderer is a ports.Renderer that keeps every call in order.
type recordingRenderer struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingRenderer) record(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

func (r *recordingRenderer) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recordingRenderer) Start(context.Context) error { return nil }
func (r *recordingRenderer) Stop() error                 { return nil }

func (r *recordingRenderer) OnPlanEmit(task string, files []string) {
	r.record("plan %s %v", task, files)
}

func (r *recordingRenderer) OnTaskStart(_, parentID, name string, _ time.Time) {
	r.record("start %s parent=%t", name, parentID != "")
}

func (r *recordingRenderer) OnTaskLog(_ string, data []byte) {
	r.record("log %q", data)
}

func (r *recordingRenderer) OnTaskComplete(_ string, _ time.Time, err error) {
	if err != nil {
		r.record("complete err=%v", err)
		return
	}
	r.record("complete")
}
