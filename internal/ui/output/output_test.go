package output_test

import (
	"bytes"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/lumen/internal/ui/output"
)

func TestProfile(t *testing.T) {
	tests := []struct {
		name    string
		noColor string
		force   string
		tty     bool
		want    termenv.Profile
	}{
		{"terminal", "", "", true, termenv.ANSI},
		{"redirected", "", "", false, termenv.Ascii},
		{"NO_COLOR on a terminal", "1", "", true, termenv.Ascii},
		{"CLICOLOR_FORCE when redirected", "", "1", false, termenv.ANSI},
		{"CLICOLOR_FORCE=0 when redirected", "", "0", false, termenv.Ascii},
		{"NO_COLOR beats CLICOLOR_FORCE", "1", "1", false, termenv.Ascii},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", tt.noColor)
			t.Setenv("CLICOLOR_FORCE", tt.force)
			assert.Equal(t, tt.want, output.Profile(tt.tty))
		})
	}
}

func TestInteractiveProfile(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	assert.Equal(t, termenv.TrueColor, output.InteractiveProfile())

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, termenv.Ascii, output.InteractiveProfile())
}

func TestNew_AsciiWritesPlainText(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf, termenv.Ascii)
	_, _ = out.WriteString(out.String("built").Foreground(termenv.ANSIGreen).String())

	assert.Equal(t, "built", buf.String())
}

func TestNew_ANSI(t *testing.T) {
	var buf bytes.Buffer
	out := output.New(&buf, termenv.ANSI)
	_, _ = out.WriteString(out.String("x").Foreground(termenv.ANSIRed).String())

	assert.Contains(t, buf.String(), "\x1b[")
	assert.Contains(t, buf.String(), "x")
}

func TestNew_NilWriter(t *testing.T) {
	assert.NotNil(t, output.New(nil, termenv.Ascii))
}
