// Package output creates termenv outputs whose color profile follows the
// stream being written to.
package output

import (
	"io"
	"os"

	"github.com/muesli/termenv"
)

// Profile returns the color profile for a stream. NO_COLOR always wins and
// CLICOLOR_FORCE keeps colors on a redirected stream. Otherwise only a
// terminal gets ANSI colors, so `lumen css > build.log` stays plain text.
func Profile(tty bool) termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return termenv.ANSI
	}
	if tty {
		return termenv.ANSI
	}
	return termenv.Ascii
}

// InteractiveProfile returns the profile of the status view. It only runs on
// a terminal, so it renders in true color unless NO_COLOR is set.
func InteractiveProfile() termenv.Profile {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}
	return termenv.TrueColor
}

// New creates a termenv.Output on w that renders with profile. A nil writer
// selects os.Stderr.
func New(w io.Writer, profile termenv.Profile, opts ...termenv.OutputOption) *termenv.Output {
	if w == nil {
		w = os.Stderr
	}

	// WithTTY stops termenv from probing w: the caller already decided.
	opts = append(opts,
		termenv.WithProfile(profile),
		termenv.WithTTY(true),
	)

	return termenv.NewOutput(w, opts...)
}
