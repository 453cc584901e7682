package domain

// BuildTask transforms every stylesheet matched by Inputs through Stages and
// writes one output per input into OutputDir, keeping the base name.
type BuildTask struct {
	Name      InternedString
	Inputs    []string
	Stages    []StageSpec
	OutputDir string
	// Preset records which preset the stages came from, empty for explicit stages.
	Preset string
}

// Fingerprint identifies the stage configuration of the task.
func (t *BuildTask) Fingerprint() string {
	return Fingerprint(t.Stages)
}

// Validate checks the structural invariants of the task.
func (t *BuildTask) Validate() error {
	if len(t.Inputs) == 0 {
		return withTask(ErrMissingInputs, t.Name)
	}
	if t.OutputDir == "" {
		return withTask(ErrMissingOutput, t.Name)
	}
	return nil
}

// WatchTask re-runs Target whenever a file matching Globs changes.
// It is registered once at startup and never mutated.
//
// When the project names a token file, the session also watches it. No stage
// reads design tokens, so a change there only re-validates the table and
// swaps it in for later token lookups; it never triggers a rebuild.
type WatchTask struct {
	Name   InternedString
	Globs  []string
	Target InternedString
}

// Validate checks the structural invariants of the task.
func (t *WatchTask) Validate() error {
	if len(t.Globs) == 0 {
		return withTask(ErrMissingWatchGlobs, t.Name)
	}
	return nil
}
