package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rigsim/internal/world"
)

const tickRate = time.Second / 30

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(34)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(10)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Live steps a world at a fixed tick and renders the scene next to a
// status pane. Space pauses, r resets, q quits.
type Live struct {
	w        *world.World
	name     string
	step     float64
	duration float64
	r        *Renderer
	running  bool
	stats    world.StepStats
	err      error
}

// NewLive wraps a world for interactive stepping. step is the simulated
// time advanced per tick; a positive duration pauses the run once the
// clock passes it.
func NewLive(w *world.World, name string, step, duration float64) Live {
	return Live{w: w, name: name, step: step, duration: duration, r: NewRenderer(), running: true}
}

func (m Live) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Live) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.err == nil {
				m.running = !m.running
			}
		case "r":
			if err := m.w.Reset(); err == nil {
				m.err = nil
				m.stats = world.StepStats{}
				m.running = true
			}
		}
	case TickMsg:
		if m.running {
			stats, err := m.w.Step(m.w.Time() + m.step)
			if err != nil {
				m.err = err
				m.running = false
			} else {
				m.stats = stats
			}
			if m.duration > 0 && m.w.Time() >= m.duration {
				m.running = false
			}
		}
		return m, tick()
	}
	return m, nil
}

func (m Live) View() string {
	poses := m.w.Scene().Snapshot()
	m.r.Fit(poses)
	canvasView := canvasStyle.Render(m.r.Render(poses))

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs", m.w.Time())) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.stats.Bodies)) + "\n")
	s.WriteString(labelStyle.Render("Substeps") + valueStyle.Render(fmt.Sprintf("%d", m.stats.Substeps)) + "\n")
	s.WriteString(labelStyle.Render("Links") + valueStyle.Render(fmt.Sprintf("%d", len(poses))) + "\n")
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	s.WriteString(helpStyle.Render("\nSP:Pause R:Reset Q:Quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}

func (m Live) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("FAILED")
	case m.duration > 0 && m.w.Time() >= m.duration:
		return "FINISHED"
	case !m.running:
		return "PAUSED"
	}
	return "RUNNING"
}
