package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/lumen/internal/ui/style"
)

// View implements tea.Model.
func (m *Model) View() string {
	var s strings.Builder

	s.WriteString(m.header() + "\n")
	if m.Builds == 0 {
		s.WriteString(m.styles.faint.Render("  waiting for changes...") + "\n")
	}
	for _, node := range m.Files {
		s.WriteString(m.clip(m.row(node)) + "\n")
	}
	if m.Err != "" {
		s.WriteString(m.clip("  "+m.styles.err.Render(m.Err)) + "\n")
	}
	if !m.quitting {
		s.WriteString(m.styles.faint.Render("  q quit") + "\n")
	}

	return s.String()
}

func (m *Model) header() string {
	task := m.Task
	if task == "" {
		task = "lumen"
	}

	var status string
	switch {
	case m.Builds == 0:
		status = "idle"
	case m.Running:
		status = "building"
	case m.Err != "":
		status = fmt.Sprintf("failed after %v", m.Elapsed.Round(time.Millisecond))
	default:
		status = fmt.Sprintf("built in %v", m.Elapsed.Round(time.Millisecond))
	}

	title := m.styles.title
	if !m.Running && m.Err != "" {
		title = m.styles.failed
	}
	label := task
	if m.Builds > 0 {
		label = fmt.Sprintf("%s #%d", task, m.Builds)
	}
	return title.Render(label) + " " + status
}

func (m *Model) row(node *FileNode) string {
	var icon string
	st := m.styles.pending
	switch node.Status {
	case StatusRunning:
		icon, st = "●", m.styles.running
	case StatusDone:
		icon, st = style.Check, m.styles.done
	case StatusError:
		icon, st = style.Cross, m.styles.err
	default:
		icon = "○"
	}

	line := "  " + st.Render(icon+" "+node.Path)
	if node.Status == StatusDone || node.Status == StatusError {
		line += " " + m.styles.faint.Render(node.Elapsed.Round(time.Millisecond).String())
	}
	if node.Detail != "" {
		line += "  " + node.Detail
	}
	return line
}

// clip keeps a line within the terminal width so repaints stay aligned.
func (m *Model) clip(line string) string {
	if m.Width <= 0 {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
}
