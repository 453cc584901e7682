package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// StageID names a stylesheet transform stage.
type StageID string

// Known stage identifiers, named after the PostCSS plugins they stand in for.
const (
	StageAutoprefixer     StageID = "autoprefixer"
	StagePresetEnv        StageID = "postcss-preset-env"
	StageNesting          StageID = "postcss-nesting"
	StageCustomMedia      StageID = "postcss-custom-media"
	StageCustomProperties StageID = "postcss-custom-properties"
)

// StageSpec is one entry of a pipeline: a stage identifier plus the options
// handed to it. Options are interpreted by the stage itself.
type StageSpec struct {
	ID      StageID        `yaml:"id"`
	Options map[string]any `yaml:"options,omitempty"`
}

// Clone returns a deep copy of s, options included.
func (s StageSpec) Clone() StageSpec {
	return StageSpec{ID: s.ID, Options: cloneOptions(s.Options)}
}

// Preset is a named, ordered list of stage specs.
type Preset struct {
	Name   string
	Stages []StageSpec
}

const (
	// PresetFull runs vendor prefixing and postcss-preset-env at stage 3.
	PresetFull = "full"
	// PresetLite skips vendor prefixing and runs postcss-preset-env with its defaults.
	PresetLite = "lite"
	// DefaultPreset is used when a build task names neither a preset nor stages.
	DefaultPreset = PresetFull
)

// presets keeps both declared pipelines. They differ in stage set and options
// and must never be collapsed into one.
var presets = []Preset{
	{
		Name: PresetFull,
		Stages: []StageSpec{
			{ID: StageAutoprefixer},
			{ID: StagePresetEnv, Options: map[string]any{"stage": 3}},
			{ID: StageNesting},
			{ID: StageCustomMedia},
			{ID: StageCustomProperties},
		},
	},
	{
		Name: PresetLite,
		Stages: []StageSpec{
			{ID: StagePresetEnv},
			{ID: StageNesting},
			{ID: StageCustomMedia},
			{ID: StageCustomProperties},
		},
	},
}

// Presets returns copies of all presets in declaration order.
func Presets() []Preset {
	out := make([]Preset, 0, len(presets))
	for _, p := range presets {
		out = append(out, p.clone())
	}
	return out
}

// LookupPreset returns a copy of the named preset.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p.clone(), true
		}
	}
	return Preset{}, false
}

// PresetNames returns the preset names in declaration order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for _, p := range presets {
		names = append(names, p.Name)
	}
	return names
}

func (p Preset) clone() Preset {
	stages := make([]StageSpec, len(p.Stages))
	for i, s := range p.Stages {
		stages[i] = s.Clone()
	}
	return Preset{Name: p.Name, Stages: stages}
}

// Fingerprint returns a canonical rendering of the stage chain. Option maps are
// rendered with sorted keys so equal configurations produce equal strings.
func Fingerprint(stages []StageSpec) string {
	var sb strings.Builder
	for i, s := range stages {
		if i > 0 {
			sb.WriteString("|")
		}
		sb.WriteString(string(s.ID))
		if len(s.Options) > 0 {
			sb.WriteString(canonical(s.Options))
		}
	}
	return sb.String()
}

func canonical(v any) string {
	switch t := v.(type) {
	case map[string]any:
		keys := slices.Sorted(maps.Keys(t))
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+"="+canonical(t[k]))
		}
		return "{" + strings.Join(parts, ",") + "}"
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, canonical(e))
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%v", t)
	}
}

func cloneOptions(opts map[string]any) map[string]any {
	if opts == nil {
		return nil
	}
	out := make(map[string]any, len(opts))
	for k, v := range opts {
		if nested, ok := v.(map[string]any); ok {
			out[k] = cloneOptions(nested)
			continue
		}
		out[k] = v
	}
	return out
}
