// Package card renders an occupied profile as a business card in the
// terminal. It is presentation only: given a profile, produce a
// visual.
package card

import (
	"strings"

	"cardpark/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 3).
			Width(44)
	nameStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231"))
	roleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	codeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	starredStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// Render draws a profile card for the terminal.
func Render(code string, p *domain.Profile, starred bool) string {
	if p == nil {
		return frameStyle.Render(codeStyle.Render(code) + "\n" + roleStyle.Render("vacant slot"))
	}

	var b strings.Builder
	b.WriteString(nameStyle.Render(p.DisplayName()))
	if starred {
		b.WriteString(" " + starredStyle.Render("★"))
	}
	b.WriteString("\n")
	if p.Title != "" || p.Company != "" {
		role := p.Title
		if p.Company != "" {
			if role != "" {
				role += " @ "
			}
			role += p.Company
		}
		b.WriteString(roleStyle.Render(role) + "\n")
	}
	if p.Location != "" {
		b.WriteString(roleStyle.Render(p.Location) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(detailStyle.Render("email  "+p.Email) + "\n")
	if p.Phone != "" {
		b.WriteString(detailStyle.Render("phone  "+p.Phone) + "\n")
	}
	if p.LinkedIn != "" {
		b.WriteString(detailStyle.Render("in     "+p.LinkedIn) + "\n")
	}
	if p.Bio != "" {
		b.WriteString("\n" + detailStyle.Render(p.Bio) + "\n")
	}
	b.WriteString("\n" + codeStyle.Render(code))
	return frameStyle.Render(strings.TrimRight(b.String(), "\n"))
}
