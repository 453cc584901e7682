package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/lumen/internal/ui/style"
)

type styles struct {
	title   lipgloss.Style
	failed  lipgloss.Style
	pending lipgloss.Style
	running lipgloss.Style
	done    lipgloss.Style
	err     lipgloss.Style
	faint   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Padding(0, 1).Background(style.Frost).Foreground(style.Night),
		failed:  r.NewStyle().Bold(true).Padding(0, 1).Background(style.Red).Foreground(style.Snow),
		pending: r.NewStyle().Foreground(style.Slate),
		running: r.NewStyle().Foreground(style.Frost).Bold(true),
		done:    r.NewStyle().Foreground(style.Green),
		err:     r.NewStyle().Foreground(style.Red),
		faint:   r.NewStyle().Foreground(style.Slate).Faint(true),
	}
}
