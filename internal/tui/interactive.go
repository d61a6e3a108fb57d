package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/hyperstellar/internal/metrics"
	"github.com/san-kum/hyperstellar/internal/sim"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	frame  = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("238")).
		Padding(0, 1)
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(16*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is a bubbletea app stepping a simulation in real time.
type Model struct {
	sim      *sim.Simulation
	name     string
	dt       float64
	paused   bool
	steps    int
	renderer *LiveRenderer
}

func NewModel(s *sim.Simulation, name string, dt float64) *Model {
	return &Model{
		sim:      s,
		name:     name,
		dt:       dt,
		renderer: NewLiveRenderer(60),
	}
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "s":
			if m.paused {
				m.step()
			}
		}
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	m.sim.DriveCompiles(2)
	if err := m.sim.Update(m.dt); err == nil {
		m.steps++
	}
}

func (m *Model) View() string {
	recs := m.sim.Records()
	t := m.sim.Time()

	minX, maxX, minY, maxY := bounds(recs)
	m.renderer.clear()
	for i := range recs {
		p := &recs[i]
		cx, cy := m.renderer.project(p.X, p.Y, minX, maxX, minY, maxY)
		glyph := 'o'
		if p.Mass >= 10 {
			glyph = 'O'
		}
		m.renderer.set(cx, cy, glyph)
	}

	var canvas strings.Builder
	for _, row := range m.renderer.canvas {
		canvas.WriteString(string(row))
		canvas.WriteByte('\n')
	}

	status := green.Render("running")
	if m.paused {
		status = yellow.Render("paused")
	}

	energy := metrics.SystemEnergy(recs, 1)
	header := fmt.Sprintf("%s  %s  %s",
		cyan.Render(m.name),
		status,
		dim.Render(fmt.Sprintf("t=%.2f  steps=%d  objects=%d  E=%.4g",
			t, m.steps, len(recs), energy)))

	help := dim.Render("space pause · s step · q quit")

	return header + "\n" + frame.Render(strings.TrimRight(canvas.String(), "\n")) + "\n" + help
}

// RunInteractive blocks running the bubbletea app until the user quits.
func RunInteractive(s *sim.Simulation, name string, dt float64) error {
	p := tea.NewProgram(NewModel(s, name, dt))
	_, err := p.Run()
	return err
}
