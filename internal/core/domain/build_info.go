package domain

import "time"

// BuildInfo is the cached record for one output stylesheet.
type BuildInfo struct {
	Output     string    `json:"output,omitzero"`
	Source     string    `json:"source,omitzero"`
	InputHash  string    `json:"input_hash,omitzero"`
	OutputHash string    `json:"output_hash,omitzero"`
	Timestamp  time.Time `json:"timestamp,omitzero"`
}

// FileResult describes what happened to one input during a build.
type FileResult struct {
	Source string
	Output string
	Cached bool
}

// BuildReport summarizes a finished build.
type BuildReport struct {
	Task  string
	Files []FileResult
}

// Built returns how many files were transformed rather than served from cache.
func (r *BuildReport) Built() int {
	n := 0
	for _, f := range r.Files {
		if !f.Cached {
			n++
		}
	}
	return n
}
