package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumen/internal/adapters/cas"
	"go.trai.ch/lumen/internal/adapters/config"
	"go.trai.ch/lumen/internal/adapters/detector"
	"go.trai.ch/lumen/internal/adapters/fs"
	"go.trai.ch/lumen/internal/adapters/logger"
	"go.trai.ch/lumen/internal/adapters/stages"
	"go.trai.ch/lumen/internal/adapters/theme"
	"go.trai.ch/lumen/internal/app"
	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/lumen/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

const stickyCSS = "a:any-link { position: sticky; }\n"

type testApp struct {
	app     *app.App
	loader  *mocks.MockConfigLoader
	logger  *mocks.MockLogger
	watcher *mocks.MockWatcher
	stderr  *bytes.Buffer
	root    string
}

func setupApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv("NO_COLOR", "1")
	ctrl := gomock.NewController(t)

	ta := &testApp{
		loader:  mocks.NewMockConfigLoader(ctrl),
		logger:  mocks.NewMockLogger(ctrl),
		watcher: mocks.NewMockWatcher(ctrl),
		stderr:  new(bytes.Buffer),
		root:    t.TempDir(),
	}
	ta.app = app.New(
		ta.loader,
		ta.logger,
		cas.NewStore(),
		fs.NewHasher(),
		fs.NewResolver(),
		stages.NewFactory(),
		fs.NewWriter(),
		ta.watcher,
		theme.NewProvider(nil),
	).WithOutput(new(bytes.Buffer), ta.stderr).WithParallelism(1)
	return ta
}

func (ta *testApp) expectDefaultProject() {
	ta.loader.EXPECT().Load(".").Return(config.DefaultProject(ta.root), nil)
}

func (ta *testApp) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(ta.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func (ta *testApp) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(ta.root, rel))
	require.NoError(t, err)
	return string(data)
}

func TestApp_Run_BuildTask(t *testing.T) {
	ta := setupApp(t)
	ta.write(t, "css/a.css", stickyCSS)
	ta.write(t, "css/b.css", ".b { color: red; }\n")

	ta.expectDefaultProject()
	ta.logger.EXPECT().Info("built 2 of 2 stylesheet(s) into build")

	err := ta.app.Run(context.Background(), "css", app.RunOptions{})
	require.NoError(t, err)

	assert.Equal(t, "a:link, a:visited {\n  position: -webkit-sticky;\n  position: sticky;\n}\n", ta.read(t, "build/a.css"))
	assert.Equal(t, ".b {\n  color: red;\n}\n", ta.read(t, "build/b.css"))
	assert.Contains(t, ta.stderr.String(), "[css] Starting...")
	assert.Contains(t, ta.stderr.String(), "Building 2 stylesheet(s)")
}

func TestApp_Run_CachedBuild(t *testing.T) {
	ta := setupApp(t)
	ta.write(t, "css/a.css", stickyCSS)

	ta.loader.EXPECT().Load(".").Return(config.DefaultProject(ta.root), nil).Times(3)
	gomock.InOrder(
		ta.logger.EXPECT().Info("built 1 of 1 stylesheet(s) into build"),
		ta.logger.EXPECT().Info("built 0 of 1 stylesheet(s) into build"),
		ta.logger.EXPECT().Info("built 1 of 1 stylesheet(s) into build"),
	)

	require.NoError(t, ta.app.Run(context.Background(), "css", app.RunOptions{}))
	require.NoError(t, ta.app.Run(context.Background(), "css", app.RunOptions{}))
	require.NoError(t, ta.app.Run(context.Background(), "css", app.RunOptions{NoCache: true}))
}

func TestApp_Run_PresetOverride(t *testing.T) {
	ta := setupApp(t)
	ta.write(t, "css/a.css", stickyCSS)

	ta.expectDefaultProject()
	ta.logger.EXPECT().Info(gomock.Any())

	err := ta.app.Run(context.Background(), "css", app.RunOptions{Preset: domain.PresetLite})
	require.NoError(t, err)

	assert.Equal(t, "a:link, a:visited {\n  position: sticky;\n}\n", ta.read(t, "build/a.css"))
}

func TestApp_Run_UnknownPreset(t *testing.T) {
	ta := setupApp(t)
	ta.expectDefaultProject()

	err := ta.app.Run(context.Background(), "css", app.RunOptions{Preset: "heavy"})
	require.ErrorContains(t, err, domain.ErrUnknownPreset.Error())
}

func TestApp_Run_BuildFailure(t *testing.T) {
	ta := setupApp(t)
	ta.write(t, "css/broken.css", ".a { color: red;")
	ta.expectDefaultProject()

	err := ta.app.Run(context.Background(), "css", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorContains(t, err, domain.ErrTransformFailed.Error())
	assert.Contains(t, ta.stderr.String(), "[css] ✗ Failed after")
}

func TestApp_Run_NoSourceFiles(t *testing.T) {
	ta := setupApp(t)
	ta.expectDefaultProject()

	err := ta.app.Run(context.Background(), "css", app.RunOptions{})
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorContains(t, err, domain.ErrNoSourceFiles.Error())
}

func TestApp_Run_TaskNotFound(t *testing.T) {
	ta := setupApp(t)
	ta.expectDefaultProject()

	err := ta.app.Run(context.Background(), "js", app.RunOptions{})
	require.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
}

func TestApp_Run_ConfigLoaderError(t *testing.T) {
	ta := setupApp(t)
	ta.loader.EXPECT().Load(".").Return(nil, errors.New("load failed"))

	err := ta.app.Run(context.Background(), "css", app.RunOptions{})
	require.ErrorContains(t, err, "failed to load configuration")
	require.ErrorContains(t, err, "load failed")
}

func TestApp_Run_WatchTask(t *testing.T) {
	ta := setupApp(t)
	ta.write(t, "css/a.css", stickyCSS)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ta.expectDefaultProject()
	ta.watcher.EXPECT().Start(gomock.Any(), filepath.Join(ta.root, "css")).Return(nil)
	ta.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(func(ports.WatchEvent) bool) {}))
	ta.watcher.EXPECT().Stop().Return(nil)
	ta.logger.EXPECT().Info("watching css/* for changes")
	ta.logger.EXPECT().Info("rebuilt 1 of 1 stylesheet(s)").Do(func(string) { cancel() })

	err := ta.app.Run(ctx, "watch", app.RunOptions{Initial: true})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(ta.root, "build", "a.css"))
}

func TestApp_Run_RedirectedOutputHasNoEscapes(t *testing.T) {
	ta := setupApp(t)
	t.Setenv("NO_COLOR", "")
	t.Setenv("CLICOLOR_FORCE", "")
	ta.write(t, "css/a.css", stickyCSS)
	ta.expectDefaultProject()
	ta.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, ta.app.Run(context.Background(), "css", app.RunOptions{}))
	assert.Contains(t, ta.stderr.String(), "[css] Starting...")
	assert.NotContains(t, ta.stderr.String(), "\x1b[")
}

func TestApp_Run_TerminalOutputIsColored(t *testing.T) {
	ta := setupApp(t)
	t.Setenv("NO_COLOR", "")
	ta.app.WithEnvironment(detector.Environment{StdoutTTY: true, StderrTTY: true})
	ta.write(t, "css/a.css", stickyCSS)
	ta.expectDefaultProject()
	ta.logger.EXPECT().Info(gomock.Any())

	require.NoError(t, ta.app.Run(context.Background(), "css", app.RunOptions{}))
	assert.Contains(t, ta.stderr.String(), "\x1b[")
	assert.Contains(t, ta.stderr.String(), "Building 1 stylesheet(s)")
}

func TestApp_Run_StatusViewOutputMode(t *testing.T) {
	ta := setupApp(t)
	ta.app.WithTeaOptions(
		tea.WithInput(strings.NewReader("")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	ta.write(t, "css/a.css", stickyCSS)
	ta.expectDefaultProject()
	ta.logger.EXPECT().Info("built 1 of 1 stylesheet(s) into build")

	require.NoError(t, ta.app.Run(context.Background(), "css", app.RunOptions{OutputMode: "tui"}))
	assert.FileExists(t, filepath.Join(ta.root, "build", "a.css"))
	assert.NotContains(t, ta.stderr.String(), "[css] Starting...")
}

func TestApp_Run_QuittingStatusViewEndsWatch(t *testing.T) {
	ta := setupApp(t)
	ta.app.WithEnvironment(detector.Environment{StdoutTTY: true, StderrTTY: true}).WithTeaOptions(
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(io.Discard),
		tea.WithoutSignalHandler(),
		tea.WithoutRenderer(),
	)
	ta.expectDefaultProject()
	ta.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)
	ta.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(func(ports.WatchEvent) bool) {}))
	ta.watcher.EXPECT().Stop().Return(nil)
	ta.logger.EXPECT().Info("watching css/* for changes")

	require.NoError(t, ta.app.Run(context.Background(), "watch", app.RunOptions{}))
}

func TestApp_Run_UnknownOutputMode(t *testing.T) {
	ta := setupApp(t)

	err := ta.app.Run(context.Background(), "css", app.RunOptions{OutputMode: "fancy"})
	require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
}

func TestApp_Run_ThemeReloadFailure(t *testing.T) {
	ta := setupApp(t)
	project := config.DefaultProject(ta.root)
	project.SetThemePath(filepath.Join(ta.root, "missing.yaml"))
	ta.loader.EXPECT().Load(".").Return(project, nil)

	err := ta.app.Run(context.Background(), "css", app.RunOptions{})
	require.ErrorContains(t, err, domain.ErrThemeReadFailed.Error())
}

func TestApp_Tokens(t *testing.T) {
	tests := []struct {
		name string
		opts app.TokensOptions
		want string
	}{
		{"color", app.TokensOptions{Category: domain.CategoryColors, Key: "nord0"}, "#2e3440\n"},
		{"color ramp", app.TokensOptions{Category: domain.CategoryColors, Key: "blue-5"}, "#0967D2\n"},
		{"max width", app.TokensOptions{Category: domain.CategoryMaxWidth, Key: "full"}, "100%\n"},
		{"font stack", app.TokensOptions{Category: domain.CategoryFontFamily, Key: "sans"}, "\"Untitled Sans\", sans-serif\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupApp(t)
			ta.expectDefaultProject()

			var out bytes.Buffer
			require.NoError(t, ta.app.Tokens(context.Background(), &out, tt.opts))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestApp_Tokens_Listing(t *testing.T) {
	ta := setupApp(t)
	ta.loader.EXPECT().Load(".").Return(config.DefaultProject(ta.root), nil).Times(2)

	var categories bytes.Buffer
	require.NoError(t, ta.app.Tokens(context.Background(), &categories, app.TokensOptions{}))
	lines := strings.Split(strings.TrimSpace(categories.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "maxWidth ("))
	assert.True(t, strings.HasPrefix(lines[2], "colors ("))

	var fonts bytes.Buffer
	require.NoError(t, ta.app.Tokens(context.Background(), &fonts, app.TokensOptions{Category: domain.CategoryFontFamily}))
	assert.Contains(t, fonts.String(), "sans: \"Untitled Sans\", sans-serif\n")
}

func TestApp_Tokens_Errors(t *testing.T) {
	tests := []struct {
		name string
		opts app.TokensOptions
		want error
	}{
		{"missing key", app.TokensOptions{Category: domain.CategoryColors, Key: "nord99"}, domain.ErrTokenNotFound},
		{"unknown category with key", app.TokensOptions{Category: "spacing", Key: "1"}, domain.ErrUnknownTokenCategory},
		{"unknown category", app.TokensOptions{Category: "spacing"}, domain.ErrUnknownTokenCategory},
		{"unknown format", app.TokensOptions{Format: "toml"}, domain.ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupApp(t)
			ta.expectDefaultProject()

			err := ta.app.Tokens(context.Background(), new(bytes.Buffer), tt.opts)
			require.ErrorContains(t, err, tt.want.Error())
		})
	}
}

func TestApp_Tokens_Export(t *testing.T) {
	ta := setupApp(t)
	ta.expectDefaultProject()

	var out bytes.Buffer
	require.NoError(t, ta.app.Tokens(context.Background(), &out, app.TokensOptions{Format: theme.FormatJSON}))
	assert.True(t, json.Valid(out.Bytes()))
	assert.Contains(t, out.String(), `"nord0": "#2e3440"`)
}

func TestApp_Tokens_ProjectTokenFile(t *testing.T) {
	ta := setupApp(t)
	ta.write(t, "tokens.yaml", "theme:\n  colors:\n    brand: '#ff0066'\n")

	project := config.DefaultProject(ta.root)
	project.SetThemePath(filepath.Join(ta.root, "tokens.yaml"))
	ta.loader.EXPECT().Load(".").Return(project, nil).Times(2)

	var out bytes.Buffer
	require.NoError(t, ta.app.Tokens(context.Background(), &out,
		app.TokensOptions{Category: domain.CategoryColors, Key: "brand"}))
	assert.Equal(t, "#ff0066\n", out.String())

	err := ta.app.Tokens(context.Background(), new(bytes.Buffer),
		app.TokensOptions{Category: domain.CategoryColors, Key: "nord0"})
	require.ErrorContains(t, err, domain.ErrTokenNotFound.Error())
}

func TestApp_Presets(t *testing.T) {
	ta := setupApp(t)

	var out bytes.Buffer
	ta.app.Presets(&out)

	want := "full (default)\n" +
		"  1. autoprefixer\n" +
		"  2. postcss-preset-env{stage=3}\n" +
		"  3. postcss-nesting\n" +
		"  4. postcss-custom-media\n" +
		"  5. postcss-custom-properties\n" +
		"lite\n" +
		"  1. postcss-preset-env\n" +
		"  2. postcss-nesting\n" +
		"  3. postcss-custom-media\n" +
		"  4. postcss-custom-properties\n"
	assert.Equal(t, want, out.String())
}

func TestApp_Clean(t *testing.T) {
	tests := []struct {
		name        string
		opts        app.CleanOptions
		keepsOutput bool
	}{
		{"everything", app.CleanOptions{}, false},
		{"cache only", app.CleanOptions{CacheOnly: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := setupApp(t)
			ta.write(t, ".lumen/store/entry.json", "{}")
			ta.write(t, "build/a.css", ".a {}\n")
			ta.write(t, "css/a.css", ".a {}\n")

			ta.expectDefaultProject()
			ta.logger.EXPECT().Info(gomock.Any()).AnyTimes()

			require.NoError(t, ta.app.Clean(context.Background(), tt.opts))

			assert.NoDirExists(t, filepath.Join(ta.root, ".lumen", "store"))
			assert.FileExists(t, filepath.Join(ta.root, "css", "a.css"))
			if tt.keepsOutput {
				assert.FileExists(t, filepath.Join(ta.root, "build", "a.css"))
			} else {
				assert.NoDirExists(t, filepath.Join(ta.root, "build"))
			}
		})
	}
}

func TestApp_Clean_OutputOutsideRoot(t *testing.T) {
	ta := setupApp(t)

	project := domain.NewProject(ta.root)
	require.NoError(t, project.AddBuildTask(&domain.BuildTask{
		Name:      domain.NewInternedString("css"),
		Inputs:    []string{"css/*.css"},
		OutputDir: "../public",
	}))
	ta.loader.EXPECT().Load(".").Return(project, nil)
	ta.logger.EXPECT().Info(gomock.Any()).Times(2)

	err := ta.app.Clean(context.Background(), app.CleanOptions{})
	require.ErrorContains(t, err, domain.ErrFailedToCleanOutput.Error())
}

func TestApp_SetJSONLogs(t *testing.T) {
	log := logger.New(termenv.Ascii)
	var buf bytes.Buffer
	log.(*logger.Logger).SetOutput(&buf)

	ctrl := gomock.NewController(t)
	loader := mocks.NewMockConfigLoader(ctrl)
	loader.EXPECT().Load(".").Return(config.DefaultProject(t.TempDir()), nil)

	a := app.New(loader, log, cas.NewStore(), fs.NewHasher(), fs.NewResolver(),
		stages.NewFactory(), fs.NewWriter(), mocks.NewMockWatcher(ctrl), theme.NewProvider(nil))
	a.SetJSONLogs(true)

	require.NoError(t, a.Clean(context.Background(), app.CleanOptions{CacheOnly: true}))

	first, _, _ := strings.Cut(buf.String(), "\n")
	assert.True(t, json.Valid([]byte(first)), first)
	assert.Contains(t, first, "removing build info store...")
}
