package card

import (
	"strings"

	"cardpark/internal/lifecycle"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	inputStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// PromptModel is a minimal bubbletea model that collects a 5-character
// access code.
type PromptModel struct {
	input    string
	errMsg   string
	Code     string
	Aborted  bool
	finished bool
}

func NewPromptModel() PromptModel { return PromptModel{} }

func (m PromptModel) Init() tea.Cmd { return nil }

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.Aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		code := lifecycle.NormalizeCode(m.input)
		if !lifecycle.ValidCode(code) {
			m.errMsg = "the code must be exactly 5 letters or digits"
			return m, nil
		}
		m.Code = code
		m.finished = true
		return m, tea.Quit
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
		m.errMsg = ""
		return m, nil
	case tea.KeyRunes:
		for _, r := range key.Runes {
			if len(m.input) >= lifecycle.CodeLength {
				break
			}
			if isCodeRune(r) {
				m.input += strings.ToUpper(string(r))
			}
		}
		m.errMsg = ""
		return m, nil
	}
	return m, nil
}

func (m PromptModel) View() string {
	if m.finished {
		return ""
	}
	display := m.input + strings.Repeat("_", lifecycle.CodeLength-len(m.input))
	view := promptStyle.Render("Enter your access code") + "\n\n  " +
		inputStyle.Render(strings.Join(strings.Split(display, ""), " ")) + "\n"
	if m.errMsg != "" {
		view += "\n" + errStyle.Render(m.errMsg) + "\n"
	}
	view += "\n" + promptStyle.Render("enter to confirm, esc to quit") + "\n"
	return view
}

func isCodeRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
