package card

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeRunes(m PromptModel, s string) PromptModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(PromptModel)
	}
	return m
}

func TestPromptCollectsAndUppercasesCode(t *testing.T) {
	m := typeRunes(NewPromptModel(), "qw3rt")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PromptModel)
	if cmd == nil {
		t.Fatal("enter on a complete code should quit")
	}
	if m.Code != "QW3RT" {
		t.Fatalf("code = %q", m.Code)
	}
}

func TestPromptRejectsShortCode(t *testing.T) {
	m := typeRunes(NewPromptModel(), "qw3")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(PromptModel)
	if m.Code != "" {
		t.Fatalf("short code accepted: %q", m.Code)
	}
	if !strings.Contains(m.View(), "exactly 5") {
		t.Fatalf("view should show the validation error:\n%s", m.View())
	}
}

func TestPromptIgnoresNonAlphanumericAndCapsLength(t *testing.T) {
	m := typeRunes(NewPromptModel(), "q!w@3#rtx")
	if m.input != "QW3RT" {
		t.Fatalf("input = %q, want filtered QW3RT", m.input)
	}
}

func TestPromptEscAborts(t *testing.T) {
	next, cmd := NewPromptModel().Update(tea.KeyMsg{Type: tea.KeyEsc})
	m := next.(PromptModel)
	if !m.Aborted {
		t.Fatal("esc should abort")
	}
	if cmd == nil {
		t.Fatal("esc should quit the program")
	}
}
