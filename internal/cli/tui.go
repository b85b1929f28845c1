package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wayfinder/wayfinder/pkg/graph"
)

// Playback styles
var (
	traceCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	traceVisitedStyle = lipgloss.NewStyle().Foreground(colorWhite)
	tracePendingStyle = lipgloss.NewStyle().Foreground(colorDim)
	traceGoalStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
)

// tickMsg advances the playback while it is running.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(400*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// =============================================================================
// TraceModel - Search expansion playback
// =============================================================================

// TraceModel is the bubbletea model animating a recorded exploration order.
type TraceModel struct {
	names   []string // display name per step
	goalIdx int      // step index of the goal, -1 if never reached
	step    int      // steps currently revealed
	paused  bool
}

// newTraceModel builds the playback over a recorded expansion order.
func newTraceModel(g *graph.Graph, order []int, goal int) TraceModel {
	m := TraceModel{goalIdx: -1}
	for i, id := range order {
		name := fmt.Sprintf("#%d", id)
		if n, ok := g.Node(id); ok {
			name = n.Name
		}
		m.names = append(m.names, name)
		if id == goal {
			m.goalIdx = i
		}
	}
	return m
}

func (m TraceModel) Init() tea.Cmd {
	return tick()
}

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
			if !m.paused {
				return m, tick()
			}
		case "right", "l":
			if m.step < len(m.names) {
				m.step++
			}
		case "left", "h":
			if m.step > 0 {
				m.step--
			}
		}
	case tickMsg:
		if m.paused {
			return m, nil
		}
		if m.step < len(m.names) {
			m.step++
			return m, tick()
		}
	}
	return m, nil
}

func (m TraceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Search Playback"))
	b.WriteString("\n")
	b.WriteString(tracePendingStyle.Render("space pause  ←/→ step  q quit"))
	b.WriteString("\n\n")

	for i, name := range m.names {
		var line string
		switch {
		case i == m.goalIdx && i < m.step:
			line = traceGoalStyle.Render(iconSuccess + " " + name)
		case i == m.step-1:
			line = traceCurrentStyle.Render(iconArrow + " " + name)
		case i < m.step:
			line = traceVisitedStyle.Render("  " + name)
		default:
			line = tracePendingStyle.Render("  " + name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(tracePendingStyle.Render(fmt.Sprintf("step %d/%d", m.step, len(m.names))))
	if m.paused {
		b.WriteString(tracePendingStyle.Render("  (paused)"))
	}
	b.WriteString("\n")
	return b.String()
}
