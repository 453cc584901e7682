// Package config provides the configuration loader for lumen.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/lumen/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Names of the tasks defined when no lumen.yaml exists.
const (
	DefaultBuildTask = "css"
	DefaultWatchTask = "watch"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds lumen.yaml in cwd or any parent and returns the project it
// describes. Without a configuration file the built-in tasks rooted at cwd
// are returned.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	absCwd, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	configPath, found := findConfiguration(absCwd)
	if !found {
		return DefaultProject(absCwd), nil
	}

	var file Lumenfile
	if err := readAndUnmarshalYAML(configPath, &file); err != nil {
		return nil, zerr.With(err, "file", configPath)
	}

	p, err := l.buildProject(configPath, &file)
	if err != nil {
		return nil, zerr.With(err, "file", configPath)
	}
	return p, nil
}

// DefaultProject returns the built-in configuration: build task css turns
// css/*.css into build/ with the default preset, and watch task watch
// re-runs it whenever anything under css/ changes.
func DefaultProject(root string) *domain.Project {
	p := domain.NewProject(root)
	preset, _ := domain.LookupPreset(domain.DefaultPreset)
	_ = p.AddBuildTask(&domain.BuildTask{
		Name:      domain.NewInternedString(DefaultBuildTask),
		Inputs:    []string{"css/*.css"},
		Stages:    preset.Stages,
		OutputDir: "build",
		Preset:    preset.Name,
	})
	_ = p.AddWatchTask(&domain.WatchTask{
		Name:   domain.NewInternedString(DefaultWatchTask),
		Globs:  []string{"css/*"},
		Target: domain.NewInternedString(DefaultBuildTask),
	})
	return p
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

func (l *Loader) buildProject(configPath string, file *Lumenfile) (*domain.Project, error) {
	if file.Version != "" && file.Version != "1" && l.Logger != nil {
		l.Logger.Warn(fmt.Sprintf("unknown %s version %q, reading it as version 1", domain.ConfigFileName, file.Version))
	}

	root := resolveRoot(configPath, file.Root)
	p := domain.NewProject(root)
	if file.Theme != "" {
		p.SetThemePath(resolvePath(root, file.Theme))
	}

	// Sorted for deterministic error reporting.
	names := make([]string, 0, len(file.Tasks))
	for name := range file.Tasks {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		dto := file.Tasks[name]
		if dto == nil {
			dto = &TaskDTO{}
		}
		if err := validateTaskName(name); err != nil {
			return nil, err
		}

		var err error
		if len(dto.Watch) > 0 || dto.Run != "" {
			err = p.AddWatchTask(buildWatchTask(name, dto))
		} else {
			var task *domain.BuildTask
			task, err = buildBuildTask(name, dto)
			if err == nil {
				err = p.AddBuildTask(task)
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func buildBuildTask(name string, dto *TaskDTO) (*domain.BuildTask, error) {
	task := &domain.BuildTask{
		Name:   domain.NewInternedString(name),
		Inputs: canonicalizeStrings(dto.Input),
	}
	if dto.Output != "" {
		task.OutputDir = filepath.Clean(dto.Output)
	}

	switch {
	case dto.Preset != "" && len(dto.Stages) > 0:
		return nil, zerr.With(domain.ErrPresetAndStages, "task_name", name)
	case len(dto.Stages) > 0:
		task.Stages = make([]domain.StageSpec, len(dto.Stages))
		for i, s := range dto.Stages {
			task.Stages[i] = s.Clone()
		}
	default:
		presetName := dto.Preset
		if presetName == "" {
			presetName = domain.DefaultPreset
		}
		preset, ok := domain.LookupPreset(presetName)
		if !ok {
			err := zerr.With(domain.ErrUnknownPreset, "preset", presetName)
			return nil, zerr.With(err, "task_name", name)
		}
		task.Stages = preset.Stages
		task.Preset = preset.Name
	}
	return task, nil
}

func buildWatchTask(name string, dto *TaskDTO) *domain.WatchTask {
	return &domain.WatchTask{
		Name:   domain.NewInternedString(name),
		Globs:  canonicalizeStrings(dto.Watch),
		Target: domain.NewInternedString(dto.Run),
	}
}

// canonicalizeStrings sorts and deduplicates glob lists.
func canonicalizeStrings(strs []string) []string {
	if len(strs) == 0 {
		return nil
	}
	sorted := slices.Clone(strs)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	return resolvePath(configDir, configuredRoot)
}

func resolvePath(base, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(base, path))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is discovered by findConfiguration
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}

// validateTaskName checks if the task name is reserved or contains invalid characters.
func validateTaskName(name string) error {
	if name == "all" {
		return zerr.With(domain.ErrReservedTaskName, "task_name", name)
	}
	if name == "" || strings.ContainsAny(name, ": \t/") {
		return zerr.With(domain.ErrInvalidTaskName, "task_name", name)
	}
	return nil
}
