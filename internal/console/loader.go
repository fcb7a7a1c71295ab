package console

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/yamlassist/internal/model"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type analyzeDoneMsg struct {
	result model.Analysis
}

type spinnerTickMsg struct{}

type loaderModel struct {
	label     string
	analyzeFn func() model.Analysis
	frame     int
	result    model.Analysis
	cancelled bool
	done      bool
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doAnalyze(), m.tick())
}

func (m loaderModel) doAnalyze() tea.Cmd {
	analyzeFn := m.analyzeFn
	return func() tea.Msg {
		return analyzeDoneMsg{result: analyzeFn()}
	}
}

func (m loaderModel) tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case analyzeDoneMsg:
		m.result = msg.result
		m.done = true
		return m, tea.Quit
	case spinnerTickMsg:
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, m.tick()
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	spinner := lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Render(spinnerFrames[m.frame])
	return fmt.Sprintf("%s Analyzing %s...\n", spinner, m.label)
}

// RunLoader shows a spinner while analyzer works on text. It renders inline
// (no alt screen). Ctrl+C abandons the wait and returns an error.
func RunLoader(ctx context.Context, label string, analyzer model.Analyzer, text string) (model.Analysis, error) {
	m := loaderModel{
		label: label,
		analyzeFn: func() model.Analysis {
			return analyzer.Analyze(ctx, text)
		},
	}
	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return model.Analysis{}, err
	}
	final := result.(loaderModel)
	if final.cancelled {
		return model.Analysis{}, fmt.Errorf("cancelled")
	}
	return final.result, nil
}
