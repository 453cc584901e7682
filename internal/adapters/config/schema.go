package config

import "go.trai.ch/lumen/internal/core/domain"

// Lumenfile represents the structure of the lumen.yaml configuration file.
type Lumenfile struct {
	Version string              `yaml:"version"`
	Root    string              `yaml:"root"`
	Theme   string              `yaml:"theme"`
	Tasks   map[string]*TaskDTO `yaml:"tasks"`
}

// TaskDTO represents a task definition in the configuration. A task with
// watch globs is a watch task; every other task is a build task.
type TaskDTO struct {
	Input  []string           `yaml:"input"`
	Output string             `yaml:"output"`
	Preset string             `yaml:"preset"`
	Stages []domain.StageSpec `yaml:"stages"`
	Watch  []string           `yaml:"watch"`
	Run    string             `yaml:"run"`
}
