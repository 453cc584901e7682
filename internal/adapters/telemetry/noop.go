package telemetry

import (
	"context"

	"go.trai.ch/lumen/internal/core/ports"
)

// NoOpTracer is a ports.Tracer that records nothing.
type NoOpTracer struct{}

// NewNoOpTracer returns a tracer that discards everything.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns ctx unchanged and a span that ignores all calls.
func (*NoOpTracer) Start(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
	return ctx, noOpSpan{}
}

// EmitPlan does nothing.
func (*NoOpTracer) EmitPlan(context.Context, string, []string) {}

type noOpSpan struct{}

func (noOpSpan) End() {}

func (noOpSpan) RecordError(error) {}

func (noOpSpan) SetAttribute(string, any) {}

func (noOpSpan) Write(p []byte) (int, error) {
	return len(p), nil
}
