// Package tui renders build progress as a status view that repaints in place.
// It is meant for watch sessions on an interactive terminal.
package tui

import (
	"bytes"
	"io"
	"path"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// FileStatus is the state of one stylesheet within the current build.
type FileStatus int

const (
	// StatusPending means the file is planned but not started.
	StatusPending FileStatus = iota
	// StatusRunning means the file is going through its stages.
	StatusRunning
	// StatusDone means the output was written or was already current.
	StatusDone
	// StatusError means the file failed; Detail holds the reason.
	StatusError
)

// FileNode is one stylesheet row.
type FileNode struct {
	Path    string
	Status  FileStatus
	Detail  string
	Elapsed time.Duration
	started time.Time
}

// PlanMsg announces the input files of a build.
type PlanMsg struct {
	Task  string
	Files []string
}

// SpanStartMsg reports a started span. Spans without a parent are builds;
// their children are single files.
type SpanStartMsg struct {
	SpanID    string
	ParentID  string
	Name      string
	StartTime time.Time
}

// SpanLogMsg carries output written to a span.
type SpanLogMsg struct {
	SpanID string
	Data   []byte
}

// SpanCompleteMsg reports a finished span.
type SpanCompleteMsg struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// Model is the status view state. It always shows the most recent build.
type Model struct {
	Task    string
	Builds  int
	Running bool
	Err     string
	Elapsed time.Duration
	Files   []*FileNode
	Width   int

	rootSpan string
	started  time.Time
	files    map[string]*FileNode
	spans    map[string]*FileNode
	styles   styles
	quitting bool
}

// NewModel creates a Model whose styles render with profile on w.
func NewModel(w io.Writer, profile termenv.Profile) *Model {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)

	return &Model{
		files:  make(map[string]*FileNode),
		spans:  make(map[string]*FileNode),
		styles: newStyles(r),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width

	case SpanStartMsg:
		if msg.ParentID == "" {
			m.startBuild(msg)
			break
		}
		node := m.file(fileKey(msg.Name))
		node.Status = StatusRunning
		node.Detail = ""
		node.started = msg.StartTime
		m.spans[msg.SpanID] = node

	case PlanMsg:
		m.Task = msg.Task
		for _, f := range msg.Files {
			m.file(f)
		}

	case SpanLogMsg:
		if node, ok := m.spans[msg.SpanID]; ok {
			if line := lastLine(msg.Data); line != "" {
				node.Detail = line
			}
		}

	case SpanCompleteMsg:
		if msg.SpanID == m.rootSpan {
			m.Running = false
			m.Elapsed = msg.EndTime.Sub(m.started)
			if msg.Err != nil {
				m.Err = firstLine(msg.Err.Error())
			}
			break
		}
		node, ok := m.spans[msg.SpanID]
		if !ok {
			break
		}
		delete(m.spans, msg.SpanID)
		node.Elapsed = msg.EndTime.Sub(node.started)
		if msg.Err != nil {
			node.Status = StatusError
			node.Detail = firstLine(msg.Err.Error())
		} else {
			node.Status = StatusDone
		}
	}

	return m, nil
}

// startBuild resets the rows for a new build.
func (m *Model) startBuild(msg SpanStartMsg) {
	m.Builds++
	m.Running = true
	m.Err = ""
	m.Elapsed = 0
	m.Task = msg.Name
	m.rootSpan = msg.SpanID
	m.started = msg.StartTime
	m.Files = m.Files[:0]
	m.files = make(map[string]*FileNode)
	m.spans = make(map[string]*FileNode)
}

// file returns the row for a planned path, creating it when a span arrives
// before the plan.
func (m *Model) file(p string) *FileNode {
	key := path.Base(p)
	if node, ok := m.files[key]; ok {
		if strings.Contains(p, "/") {
			node.Path = p
		}
		return node
	}
	node := &FileNode{Path: p}
	m.files[key] = node
	m.Files = append(m.Files, node)
	return node
}

// fileKey strips the "task:" prefix from a file span name.
func fileKey(spanName string) string {
	if _, base, ok := strings.Cut(spanName, ":"); ok {
		return base
	}
	return spanName
}

func lastLine(data []byte) string {
	lines := bytes.Split(bytes.TrimRight(data, "\r\n"), []byte("\n"))
	return strings.TrimSpace(string(lines[len(lines)-1]))
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
