// Package style provides shared UI styling primitives: the CLI colors, taken
// from the Nord entries of the design-token table, and status icons.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Night  = lipgloss.Color("#2e3440") // nord0
	Frost  = lipgloss.Color("#88c0d0") // nord8
	Slate  = lipgloss.Color("#4c566a") // nord3
	Snow   = lipgloss.Color("#eceff4") // nord6
	Green  = lipgloss.Color("#a3be8c") // nord14
	Red    = lipgloss.Color("#bf616a") // nord11
	Yellow = lipgloss.Color("#ebcb8b") // nord13
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
)
