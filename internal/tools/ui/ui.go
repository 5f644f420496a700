// Package ui runs a long task behind a small terminal progress view.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var spinnerFrames = []string{"|", "/", "-", "\\"}

type doneMsg struct {
	details []string
	err     error
}

type tickMsg struct{}

type model struct {
	title   string
	frame   int
	details []string
	err     error
	done    bool
}

func (m model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame++
		return m, tick()
	case doneMsg:
		m.details = msg.details
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.err = context.Canceled
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	if m.done {
		if m.err != nil {
			b.WriteString(failStyle.Render("✗ "+m.title) + "\n")
		} else {
			b.WriteString(okStyle.Render("✓ "+m.title) + "\n")
		}
	} else {
		b.WriteString(titleStyle.Render(spinnerFrames[m.frame%len(spinnerFrames)]+" "+m.title) + "\n")
	}
	for _, d := range m.details {
		b.WriteString(detailStyle.Render("  "+d) + "\n")
	}
	if m.done && m.err != nil {
		b.WriteString(failStyle.Render("  "+m.err.Error()) + "\n")
	}
	return b.String()
}

// Run executes fn while animating a spinner, then prints the collected
// detail lines. It returns fn's details and error.
func Run(title string, fn func(context.Context) ([]string, error)) ([]string, error) {
	p := tea.NewProgram(model{title: title})

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()
		details, err := fn(ctx)
		p.Send(doneMsg{details: details, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run ui: %w", err)
	}
	m := final.(model)
	return m.details, m.err
}
