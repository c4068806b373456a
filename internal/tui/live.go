package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/oscillab/crvdo/internal/dynamo"
	"github.com/oscillab/crvdo/internal/viz"
)

const historyCapacity = 400

type tickMsg time.Time

func tick(frameRate int) tea.Cmd {
	if frameRate <= 0 {
		frameRate = 30
	}
	return tea.Tick(time.Second/time.Duration(frameRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model steps an oscillator batch live and plots one oscillator's z1
// and z3 histories. Only those two components move when the batch
// starts at rest with forcing on u1/u3.
type Model struct {
	sys   dynamo.System
	integ dynamo.Integrator
	ctrl  dynamo.Controller

	y      dynamo.StateBatch
	params dynamo.ParamBatch
	t      float64

	selected     int
	stepsPerTick int
	frameRate    int
	paused       bool
	failed       error

	histZ1 []float64
	histZ3 []float64

	width, height int
}

func NewModel(sys dynamo.System, integ dynamo.Integrator, ctrl dynamo.Controller, y0 dynamo.StateBatch, params dynamo.ParamBatch, stepsPerTick, frameRate int) Model {
	if stepsPerTick < 1 {
		stepsPerTick = 1
	}
	return Model{
		sys:          sys,
		integ:        integ,
		ctrl:         ctrl,
		y:            y0.Clone(),
		params:       params,
		stepsPerTick: stepsPerTick,
		frameRate:    frameRate,
		histZ1:       make([]float64, 0, historyCapacity),
		histZ3:       make([]float64, 0, historyCapacity),
		width:        100,
		height:       30,
	}
}

func (m Model) Init() tea.Cmd { return tick(m.frameRate) }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "left", "h":
			if m.selected > 0 {
				m.selected--
				m.histZ1 = m.histZ1[:0]
				m.histZ3 = m.histZ3[:0]
			}
		case "right", "l":
			if m.selected < len(m.y)-1 {
				m.selected++
				m.histZ1 = m.histZ1[:0]
				m.histZ3 = m.histZ3[:0]
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if m.paused || m.failed != nil {
			return m, tick(m.frameRate)
		}
		for s := 0; s < m.stepsPerTick; s++ {
			u := m.ctrl.Compute(m.y, m.t)
			next, err := m.integ.Step(m.sys, m.y, m.params, u)
			if err != nil {
				m.failed = err
				break
			}
			m.y = next
			m.t += m.integ.Dt()
		}

		m.histZ1 = appendBounded(m.histZ1, m.y[m.selected][0])
		m.histZ3 = appendBounded(m.histZ3, m.y[m.selected][2])
		return m, tick(m.frameRate)
	}

	return m, nil
}

func appendBounded(hist []float64, v float64) []float64 {
	if len(hist) == historyCapacity {
		copy(hist, hist[1:])
		hist = hist[:historyCapacity-1]
	}
	return append(hist, v)
}

func (m Model) View() string {
	var b strings.Builder

	status := viz.StatusRunning.Render("running")
	if m.paused {
		status = viz.StatusPaused.Render("paused")
	}
	if m.failed != nil {
		status = viz.StatusPaused.Render(fmt.Sprintf("failed: %v", m.failed))
	}

	b.WriteString(viz.HeaderStyle.Render(
		fmt.Sprintf("crvdo live  oscillator %d/%d  t=%.3f  %s",
			m.selected+1, len(m.y), m.t, status)))
	b.WriteByte('\n')

	graphW := m.width - 12
	if graphW < 20 {
		graphW = 20
	}
	graphH := (m.height - 12) / 2
	if graphH < 5 {
		graphH = 5
	}

	if len(m.histZ1) > 1 {
		b.WriteString(viz.GraphStyle.Render(viz.TimeSeries(m.histZ1, "z1", graphW, graphH)))
		b.WriteByte('\n')
		b.WriteString(viz.GraphStyle.Render(viz.TimeSeries(m.histZ3, "z3", graphW, graphH)))
		b.WriteByte('\n')
	}

	row := m.y[m.selected]
	b.WriteString(viz.LabelStyle.Render("state"))
	b.WriteString(viz.ValueStyle.Render(
		fmt.Sprintf("z1=%+.4f  z2=%+.4f  z3=%+.4f  z4=%+.4f", row[0], row[1], row[2], row[3])))
	b.WriteByte('\n')

	p := m.params[m.selected]
	b.WriteString(viz.LabelStyle.Render("params"))
	b.WriteString(viz.ValueStyle.Render(
		fmt.Sprintf("a=%.3f  b=%.3f  c=%.4f  d=%.3f  e=%.3f", p[0], p[1], p[2], p[3], p[4])))
	b.WriteByte('\n')

	b.WriteString(viz.HelpStyle.Render("space pause · ←/→ oscillator · q quit"))

	return b.String()
}

// RunLive blocks in the live view until the user quits.
func RunLive(sys dynamo.System, integ dynamo.Integrator, ctrl dynamo.Controller, y0 dynamo.StateBatch, params dynamo.ParamBatch, stepsPerTick, frameRate int) error {
	p := tea.NewProgram(NewModel(sys, integ, ctrl, y0, params, stepsPerTick, frameRate), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
