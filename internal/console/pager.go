package console

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pagerTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	pagerStatusStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236"))
)

type pagerModel struct {
	title    string
	content  string
	viewport viewport.Model
	ready    bool
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Title (1 line) + status bar (1 line).
		height := max(msg.Height-2, 3)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.content)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	if !m.ready {
		return "\n  Loading..."
	}
	status := pagerStatusStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll  q quit", m.viewport.ScrollPercent()*100))
	return pagerTitleStyle.Render(m.title) + "\n" + m.viewport.View() + "\n" + status
}

// RunPager shows content in a scrollable full-screen view until the user quits.
func RunPager(title, content string) error {
	m := pagerModel{title: title, content: content}
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
