package commands_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumen/cmd/lumen/commands"
	"go.trai.ch/lumen/internal/app"
	"go.trai.ch/lumen/internal/build"
)

type mockApp struct {
	runFunc    func(ctx context.Context, name string, opts app.RunOptions) error
	tokensFunc func(ctx context.Context, w io.Writer, opts app.TokensOptions) error
	cleanOpts  *app.CleanOptions
	jsonLogs   bool
}

func (m *mockApp) Run(ctx context.Context, name string, opts app.RunOptions) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, name, opts)
	}
	return nil
}

func (m *mockApp) Tokens(ctx context.Context, w io.Writer, opts app.TokensOptions) error {
	if m.tokensFunc != nil {
		return m.tokensFunc(ctx, w, opts)
	}
	return nil
}

func (m *mockApp) Presets(w io.Writer) {
	_, _ = io.WriteString(w, "full (default)\n")
}

func (m *mockApp) Clean(_ context.Context, opts app.CleanOptions) error {
	m.cleanOpts = &opts
	return nil
}

func (m *mockApp) SetJSONLogs(enable bool) {
	m.jsonLogs = enable
}

func execute(t *testing.T, a commands.Application, args ...string) (string, error) {
	t.Helper()
	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetArgs(args)
	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Run(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantTask string
		wantOpts app.RunOptions
	}{
		{"css", []string{"css"}, "css", app.RunOptions{OutputMode: "auto"}},
		{
			"css flags", []string{"css", "--no-cache", "--preset", "lite"}, "css",
			app.RunOptions{NoCache: true, Preset: "lite", OutputMode: "auto"},
		},
		{"css output mode", []string{"css", "-o", "tui"}, "css", app.RunOptions{OutputMode: "tui"}},
		{"watch", []string{"watch"}, "watch", app.RunOptions{OutputMode: "auto"}},
		{
			"watch flags", []string{"watch", "--initial", "-n"}, "watch",
			app.RunOptions{Initial: true, NoCache: true, OutputMode: "auto"},
		},
		{"watch ci", []string{"watch", "--ci", "--output-mode", "tui"}, "watch", app.RunOptions{OutputMode: "linear"}},
		{"run build task", []string{"run", "css-lite", "-p", "full"}, "css-lite", app.RunOptions{Preset: "full", OutputMode: "auto"}},
		{
			"run watch task", []string{"run", "watch", "--initial", "--output-mode", "linear"}, "watch",
			app.RunOptions{Initial: true, OutputMode: "linear"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotTask string
			var gotOpts app.RunOptions
			called := false

			mock := &mockApp{
				runFunc: func(_ context.Context, name string, opts app.RunOptions) error {
					gotTask = name
					gotOpts = opts
					called = true
					return nil
				},
			}

			_, err := execute(t, mock, tt.args...)
			require.NoError(t, err)
			assert.True(t, called)
			assert.Equal(t, tt.wantTask, gotTask)
			assert.Equal(t, tt.wantOpts, gotOpts)
		})
	}
}

func TestCommands_RunFailure(t *testing.T) {
	mock := &mockApp{
		runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
			return errors.New("simulated error")
		},
	}

	_, err := execute(t, mock, "css")
	require.ErrorContains(t, err, "simulated error")
}

func TestCommands_RunShowsUsageWithoutTask(t *testing.T) {
	mock := &mockApp{
		runFunc: func(_ context.Context, _ string, _ app.RunOptions) error {
			panic("should not be called")
		},
	}

	out, err := execute(t, mock, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestCommands_RejectsExtraArgs(t *testing.T) {
	_, err := execute(t, &mockApp{}, "css", "extra")
	require.Error(t, err)
}

func TestCommands_Tokens(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want app.TokensOptions
	}{
		{"list", []string{"tokens"}, app.TokensOptions{}},
		{"category", []string{"tokens", "colors"}, app.TokensOptions{Category: "colors"}},
		{"key", []string{"tokens", "colors", "nord0"}, app.TokensOptions{Category: "colors", Key: "nord0"}},
		{"export", []string{"tokens", "--format", "yaml"}, app.TokensOptions{Format: "yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got app.TokensOptions
			mock := &mockApp{
				tokensFunc: func(_ context.Context, w io.Writer, opts app.TokensOptions) error {
					got = opts
					_, err := io.WriteString(w, "#2e3440\n")
					return err
				},
			}

			out, err := execute(t, mock, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "#2e3440\n", out)
		})
	}
}

func TestCommands_Presets(t *testing.T) {
	out, err := execute(t, &mockApp{}, "presets")
	require.NoError(t, err)
	assert.Equal(t, "full (default)\n", out)
}

func TestCommands_Clean(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		mock := &mockApp{}
		_, err := execute(t, mock, "clean")
		require.NoError(t, err)
		require.NotNil(t, mock.cleanOpts)
		assert.False(t, mock.cleanOpts.CacheOnly)
	})

	t.Run("cache only", func(t *testing.T) {
		mock := &mockApp{}
		_, err := execute(t, mock, "clean", "--cache-only")
		require.NoError(t, err)
		require.NotNil(t, mock.cleanOpts)
		assert.True(t, mock.cleanOpts.CacheOnly)
	})
}

func TestCommands_JSONLogs(t *testing.T) {
	mock := &mockApp{}
	_, err := execute(t, mock, "--json-logs", "presets")
	require.NoError(t, err)
	assert.True(t, mock.jsonLogs)

	mock = &mockApp{}
	_, err = execute(t, mock, "presets")
	require.NoError(t, err)
	assert.False(t, mock.jsonLogs)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lumen version "+build.Version)
}
