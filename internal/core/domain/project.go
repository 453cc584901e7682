// Package domain contains the core models of lumen: build and watch tasks,
// stage pipelines and presets, and the design-token table.
package domain

import (
	"maps"
	"slices"

	"go.trai.ch/zerr"
)

// Project is the loaded configuration: a root directory plus the build and
// watch tasks defined for it. Task names are unique across both kinds.
type Project struct {
	root      string
	themePath string
	builds    map[InternedString]*BuildTask
	watches   map[InternedString]*WatchTask
}

// NewProject creates an empty project rooted at root.
func NewProject(root string) *Project {
	return &Project{
		root:    root,
		builds:  make(map[InternedString]*BuildTask),
		watches: make(map[InternedString]*WatchTask),
	}
}

// Root returns the project root directory.
func (p *Project) Root() string {
	return p.root
}

// SetRoot sets the project root directory.
func (p *Project) SetRoot(root string) {
	p.root = root
}

// ThemePath returns the token file configured for the project, if any.
func (p *Project) ThemePath() string {
	return p.themePath
}

// SetThemePath sets the token file path.
func (p *Project) SetThemePath(path string) {
	p.themePath = path
}

// AddBuildTask registers a build task.
func (p *Project) AddBuildTask(t *BuildTask) error {
	if p.has(t.Name) {
		return withTask(ErrTaskAlreadyExists, t.Name)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	p.builds[t.Name] = t
	return nil
}

// AddWatchTask registers a watch task.
func (p *Project) AddWatchTask(t *WatchTask) error {
	if p.has(t.Name) {
		return withTask(ErrTaskAlreadyExists, t.Name)
	}
	if err := t.Validate(); err != nil {
		return err
	}
	p.watches[t.Name] = t
	return nil
}

// BuildTask returns the named build task.
func (p *Project) BuildTask(name string) (*BuildTask, bool) {
	t, ok := p.builds[NewInternedString(name)]
	return t, ok
}

// WatchTask returns the named watch task.
func (p *Project) WatchTask(name string) (*WatchTask, bool) {
	t, ok := p.watches[NewInternedString(name)]
	return t, ok
}

// BuildTaskNames returns the build task names, sorted.
func (p *Project) BuildTaskNames() []string {
	return sortedNames(p.builds)
}

// WatchTaskNames returns the watch task names, sorted.
func (p *Project) WatchTaskNames() []string {
	return sortedNames(p.watches)
}

// BuildTasks returns all build tasks sorted by name.
func (p *Project) BuildTasks() []*BuildTask {
	names := p.BuildTaskNames()
	out := make([]*BuildTask, 0, len(names))
	for _, n := range names {
		out = append(out, p.builds[NewInternedString(n)])
	}
	return out
}

// Validate checks that every watch task targets an existing build task.
func (p *Project) Validate() error {
	for _, name := range p.WatchTaskNames() {
		w := p.watches[NewInternedString(name)]
		if _, ok := p.builds[w.Target]; !ok {
			err := zerr.With(ErrMissingDependency, "missing_dependency", w.Target.String())
			return zerr.With(err, "task", name)
		}
	}
	return nil
}

func (p *Project) has(name InternedString) bool {
	_, isBuild := p.builds[name]
	_, isWatch := p.watches[name]
	return isBuild || isWatch
}

func sortedNames[T any](m map[InternedString]T) []string {
	names := make([]string, 0, len(m))
	for k := range maps.Keys(m) {
		names = append(names, k.String())
	}
	slices.Sort(names)
	return names
}

func withTask(err error, name InternedString) error {
	return zerr.With(err, "task_name", name.String())
}
