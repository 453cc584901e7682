// Package detector inspects the process environment to choose how build
// progress is presented.
package detector

import (
	"os"

	"go.trai.ch/lumen/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for build progress.
type OutputMode int

const (
	// ModeAuto picks a mode from the environment.
	ModeAuto OutputMode = iota
	// ModeTUI draws an interactive status view that repaints in place.
	ModeTUI
	// ModeLinear prints chronological, prefixed lines.
	ModeLinear
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// Environment describes the streams lumen writes to.
type Environment struct {
	// StdoutTTY is set when stdout is a terminal.
	StdoutTTY bool
	// StderrTTY is set when stderr is a terminal.
	StderrTTY bool
	// CI is set when CI=true or CI=1.
	CI bool
}

// Detect inspects the standard streams and the CI variable.
func Detect() Environment {
	ci := os.Getenv("CI")
	return Environment{
		StdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
		StderrTTY: term.IsTerminal(int(os.Stderr.Fd())),
		CI:        ci == "true" || ci == "1",
	}
}

// Interactive reports whether a repainting view can be used: both streams
// reach a terminal and no CI system is collecting the output.
func (e Environment) Interactive() bool {
	return e.StdoutTTY && e.StderrTTY && !e.CI
}

// ColorStderr reports whether lifecycle lines and logs on stderr may carry
// color escapes.
func (e Environment) ColorStderr() bool {
	return e.StderrTTY
}

// ParseMode parses an --output-mode value. "ci" is an alias for linear and
// the empty string means auto.
func ParseMode(flag string) (OutputMode, error) {
	switch flag {
	case "auto", "":
		return ModeAuto, nil
	case "tui":
		return ModeTUI, nil
	case "linear", "ci":
		return ModeLinear, nil
	default:
		return ModeAuto, zerr.With(domain.ErrUnknownOutputMode, "mode", flag)
	}
}

// ResolveMode settles ModeAuto against the environment. Watch sessions on an
// interactive terminal get the TUI; one-shot builds and everything else stay
// linear so their output can be read back from a log.
func (e Environment) ResolveMode(requested OutputMode, watching bool) OutputMode {
	if requested != ModeAuto {
		return requested
	}
	if watching && e.Interactive() {
		return ModeTUI
	}
	return ModeLinear
}
