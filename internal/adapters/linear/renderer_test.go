package linear_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumen/internal/adapters/linear"
)

func newPlainRenderer(t *testing.T) (*linear.Renderer, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return linear.NewRenderer(&stdout, &stderr, termenv.Ascii), &stdout, &stderr
}

func TestRenderer_BuildLifecycle(t *testing.T) {
	r, stdout, stderr := newPlainRenderer(t)
	require.NoError(t, r.Start(context.Background()))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.OnTaskStart("root", "", "css", start)
	r.OnPlanEmit("css", []string{"a.css", "b.css"})
	r.OnTaskStart("f1", "root", "css:a.css", start)
	r.OnTaskLog("f1", []byte("wrote build/a.css\n"))
	r.OnTaskComplete("f1", start.Add(3*time.Millisecond), nil)
	r.OnTaskComplete("root", start.Add(5*time.Millisecond), nil)
	require.NoError(t, r.Stop())

	assert.Equal(t, "[css:a.css] wrote build/a.css\n", stdout.String())
	assert.Equal(t,
		"[css] Starting...\n"+
			"[css] Building 2 stylesheet(s)\n"+
			"[css:a.css] ✓ Completed in 3ms\n"+
			"[css] ✓ Completed in 5ms\n",
		stderr.String())
}

func TestRenderer_TaskError(t *testing.T) {
	r, _, stderr := newPlainRenderer(t)

	start := time.Now()
	r.OnTaskStart("span1", "", "css", start)
	r.OnTaskComplete("span1", start.Add(50*time.Millisecond), errors.New("unclosed block"))

	assert.Contains(t, stderr.String(), "[css] ✗ Failed after 50ms: unclosed block\n")
}

func TestRenderer_PartialLines(t *testing.T) {
	r, stdout, _ := newPlainRenderer(t)

	start := time.Now()
	r.OnTaskStart("span1", "", "css", start)

	r.OnTaskLog("span1", []byte("partial"))
	assert.Empty(t, stdout.String())

	r.OnTaskLog("span1", []byte(" line\nunflushed"))
	assert.Equal(t, "[css] partial line\n", stdout.String())

	r.OnTaskComplete("span1", start, nil)
	assert.Equal(t, "[css] partial line\n[css] unflushed\n", stdout.String())
}

func TestRenderer_InterleavedSpans(t *testing.T) {
	r, stdout, _ := newPlainRenderer(t)

	start := time.Now()
	r.OnTaskStart("span1", "root", "css:a.css", start)
	r.OnTaskStart("span2", "root", "css:b.css", start)
	r.OnTaskLog("span1", []byte("one\n"))
	r.OnTaskLog("span2", []byte("two\n"))
	r.OnTaskLog("span1", []byte("three\n"))

	assert.Equal(t, "[css:a.css] one\n[css:b.css] two\n[css:a.css] three\n", stdout.String())
}

func TestRenderer_NoColor(t *testing.T) {
	r, _, stderr := newPlainRenderer(t)

	start := time.Now()
	r.OnTaskStart("span1", "", "css", start)
	r.OnTaskComplete("span1", start, nil)

	assert.NotContains(t, stderr.String(), "\x1b[")
}

func TestRenderer_PrefixColorIsStable(t *testing.T) {
	colorFor := func(name string) string {
		var stderr bytes.Buffer
		r := linear.NewRenderer(&bytes.Buffer{}, &stderr, termenv.ANSI)
		r.OnTaskStart("span", "", name, time.Now())
		out := stderr.String()
		return out[:strings.Index(out, "["+name+"]")]
	}

	for _, name := range []string{"css", "css-lite", "watch", "tokens"} {
		first := colorFor(name)
		assert.Equal(t, first, colorFor(name), name)
		assert.True(t, strings.HasPrefix(first, "\x1b["), name)
	}
}

func TestRenderer_UnknownSpans(t *testing.T) {
	r, stdout, stderr := newPlainRenderer(t)

	r.OnTaskLog("unknown", []byte("ignored\n"))
	r.OnTaskComplete("unknown", time.Now(), nil)

	assert.Empty(t, stdout.String())
	assert.Empty(t, stderr.String())
}

func TestRenderer_EmptyLines(t *testing.T) {
	r, stdout, _ := newPlainRenderer(t)

	r.OnTaskStart("span1", "", "css", time.Now())
	r.OnTaskLog("span1", []byte("\n"))
	r.OnTaskLog("span1", []byte("\r\n"))

	assert.Empty(t, stdout.String())
}

func TestRenderer_StopFlushesBuffers(t *testing.T) {
	r, stdout, _ := newPlainRenderer(t)

	start := time.Now()
	r.OnTaskStart("span1", "", "css", start)
	r.OnTaskStart("span2", "", "css-lite", start)
	r.OnTaskLog("span1", []byte("partial1"))
	r.OnTaskLog("span2", []byte("partial2"))

	require.NoError(t, r.Stop())
	assert.Contains(t, stdout.String(), "[css] partial1\n")
	assert.Contains(t, stdout.String(), "[css-lite] partial2\n")
}

func TestRenderer_NilWriters(_ *testing.T) {
	r := linear.NewRenderer(nil, nil, termenv.Ascii)

	start := time.Now()
	r.OnTaskStart("span1", "", "css", start)
	r.OnTaskLog("span1", []byte("test\n"))
	r.OnTaskComplete("span1", start.Add(time.Second), nil)
}
