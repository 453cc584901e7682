package detector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lumen/internal/adapters/detector"
	"go.trai.ch/lumen/internal/core/domain"
)

func TestDetect_CI(t *testing.T) {
	tests := []struct {
		name    string
		ciValue string
		wantCI  bool
	}{
		{"CI=true", "true", true},
		{"CI=1", "1", true},
		{"CI=false", "false", false},
		{"no CI", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ciValue)

			env := detector.Detect()
			assert.Equal(t, tt.wantCI, env.CI)
			if tt.wantCI {
				assert.False(t, env.Interactive())
			}
		})
	}
}

func TestEnvironment_ZeroValueIsLinear(t *testing.T) {
	var env detector.Environment
	assert.False(t, env.Interactive())
	assert.False(t, env.ColorStderr())
	assert.Equal(t, detector.ModeLinear, env.ResolveMode(detector.ModeAuto, true))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		flag string
		want detector.OutputMode
	}{
		{"", detector.ModeAuto},
		{"auto", detector.ModeAuto},
		{"tui", detector.ModeTUI},
		{"linear", detector.ModeLinear},
		{"ci", detector.ModeLinear},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := detector.ParseMode(tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMode_Unknown(t *testing.T) {
	_, err := detector.ParseMode("fancy")
	require.ErrorIs(t, err, domain.ErrUnknownOutputMode)
	assert.ErrorContains(t, err, "fancy")
}

func TestResolveMode(t *testing.T) {
	terminal := detector.Environment{StdoutTTY: true, StderrTTY: true}
	inCI := detector.Environment{StdoutTTY: true, StderrTTY: true, CI: true}
	piped := detector.Environment{StderrTTY: true}

	tests := []struct {
		name      string
		env       detector.Environment
		requested detector.OutputMode
		watching  bool
		want      detector.OutputMode
	}{
		{"watch on a terminal", terminal, detector.ModeAuto, true, detector.ModeTUI},
		{"build on a terminal", terminal, detector.ModeAuto, false, detector.ModeLinear},
		{"watch in CI", inCI, detector.ModeAuto, true, detector.ModeLinear},
		{"watch piped", piped, detector.ModeAuto, true, detector.ModeLinear},
		{"tui overrides detection", piped, detector.ModeTUI, false, detector.ModeTUI},
		{"linear overrides detection", terminal, detector.ModeLinear, true, detector.ModeLinear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.env.ResolveMode(tt.requested, tt.watching))
		})
	}
}

func TestOutputMode_String(t *testing.T) {
	assert.Equal(t, "auto", detector.ModeAuto.String())
	assert.Equal(t, "tui", detector.ModeTUI.String())
	assert.Equal(t, "linear", detector.ModeLinear.String())
}
