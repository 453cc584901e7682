package tui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"go.trai.ch/lumen/internal/adapters/tui"
)

func TestView_Idle(t *testing.T) {
	assert.Equal(t, " lumen  idle\n  waiting for changes...\n  q quit\n", newModel().View())
}

func TestView_FinishedBuild(t *testing.T) {
	m := newModel()
	send(m,
		tui.SpanStartMsg{SpanID: "root", Name: "css", StartTime: t0},
		tui.PlanMsg{Task: "css", Files: []string{"css/a.css", "css/b.css"}},
		tui.SpanStartMsg{SpanID: "fa", ParentID: "root", Name: "css:a.css", StartTime: t0},
		tui.SpanLogMsg{SpanID: "fa", Data: []byte("wrote build/a.css\n")},
		tui.SpanCompleteMsg{SpanID: "fa", EndTime: t0.Add(3 * time.Millisecond)},
		tui.SpanStartMsg{SpanID: "fb", ParentID: "root", Name: "css:b.css", StartTime: t0},
		tui.SpanCompleteMsg{SpanID: "fb", EndTime: t0.Add(2 * time.Millisecond), Err: errors.New("unclosed block")},
		tui.SpanCompleteMsg{SpanID: "root", EndTime: t0.Add(5 * time.Millisecond), Err: errors.New("transform failed")},
	)

	assert.Equal(t,
		" css #1  failed after 5ms\n"+
			"  ✓ css/a.css 3ms  wrote build/a.css\n"+
			"  ✗ css/b.css 2ms  unclosed block\n"+
			"  transform failed\n"+
			"  q quit\n",
		m.View())
}

func TestView_Running(t *testing.T) {
	m := newModel()
	send(m,
		tui.SpanStartMsg{SpanID: "root", Name: "css", StartTime: t0},
		tui.PlanMsg{Task: "css", Files: []string{"css/a.css"}},
		tui.SpanStartMsg{SpanID: "fa", ParentID: "root", Name: "css:a.css", StartTime: t0},
	)

	assert.Equal(t, " css #1  building\n  ● css/a.css\n  q quit\n", m.View())
}

func TestView_ClipsToWidth(t *testing.T) {
	m := newModel()
	send(m,
		tea.WindowSizeMsg{Width: 12, Height: 10},
		tui.SpanStartMsg{SpanID: "root", Name: "css", StartTime: t0},
		tui.PlanMsg{Task: "css", Files: []string{"css/a-very-long-stylesheet-name.css"}},
	)

	for _, line := range strings.Split(strings.TrimSuffix(m.View(), "\n"), "\n")[1:] {
		assert.LessOrEqual(t, len([]rune(line)), 12, line)
	}
}

func TestView_HidesHintWhenQuitting(t *testing.T) {
	m := newModel()
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.NotContains(t, m.View(), "q quit")
}
