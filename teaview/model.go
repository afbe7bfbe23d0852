package teaview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"typeline/surface"
)

// refreshMsg asks the program for a plain repaint after a surface mutation.
type refreshMsg struct{}

// blinkMsg toggles the continue cue.
type blinkMsg struct{}

const blinkEvery = 500 * time.Millisecond

func blinkCmd() tea.Cmd {
	return tea.Tick(blinkEvery, func(time.Time) tea.Msg {
		return blinkMsg{}
	})
}

type model struct {
	view   *View
	width  int
	height int
	cueOn  bool
}

func (m model) Init() tea.Cmd {
	return blinkCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.view.done.Store(true)
			return m, tea.Quit
		default:
			m.view.fire(surface.SignalKey)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.view.fire(surface.SignalPointer)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case blinkMsg:
		m.cueOn = !m.cueOn
		return m, blinkCmd()
	case refreshMsg:
		// View runs after every Update; nothing to do.
	}
	return m, nil
}

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.view.render(width, m.cueOn)
}
