package study

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/ui/theme"
)

// renderCardView renders the active card with its input surface.
func (s *StudyScreen) renderCardView(width int) string {
	active := s.session.Active().Card

	var b strings.Builder

	typeLabel := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  [%s]", active.Type))
	b.WriteString(typeLabel)
	if len(active.Tags) > 0 {
		b.WriteString("  " + theme.Tag.Render(strings.Join(active.Tags, " · ")))
	}
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	// CLOZE renders its own text with inline gaps.
	if active.Type != card.TypeCloze {
		promptStyle := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true)
		b.WriteString(promptStyle.Render(active.Prompt()))
		b.WriteString("\n\n")
	}

	b.WriteString(s.renderer.View(width))

	return b.String()
}

// renderFeedback renders the verdict overlay.
func (s *StudyScreen) renderFeedback(width int) string {
	active := s.session.Active().Card

	var b strings.Builder
	b.WriteString("\n\n")

	if s.lastCorrect {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!"))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite"))
		if answer := answerText(active); answer != "" {
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render("Correct answer: " + answer))
		}
	}

	b.WriteString("\n\n")

	if active.Explain != "" {
		expStyle := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text)
		exp := expStyle.Render(active.Explain)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, exp))
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press any key to continue..."))

	return b.String()
}

// answerText formats the expected answer for the verdict overlay. Cards
// with unusable answer keys return "".
func answerText(c card.Card) string {
	switch p := c.Payload.(type) {
	case card.MCQ:
		if p.AnswerIndex >= 0 && p.AnswerIndex < len(p.Options) {
			return p.Options[p.AnswerIndex]
		}
	case card.Short:
		return p.Answer
	case card.OX:
		if p.Answer {
			return "O (true)"
		}
		return "X (false)"
	case card.Cloze:
		keys := card.Placeholders(p.Text)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			if want, ok := p.Clozes[key]; ok {
				parts = append(parts, fmt.Sprintf("%s = %s", key, want))
			}
		}
		return strings.Join(parts, ", ")
	case card.Order:
		parts := make([]string, 0, len(p.AnswerOrder))
		for _, idx := range p.AnswerOrder {
			if idx >= 0 && idx < len(p.Items) {
				parts = append(parts, p.Items[idx])
			}
		}
		return strings.Join(parts, " → ")
	case card.Match:
		parts := make([]string, 0, len(p.Pairs))
		for _, pair := range p.Pairs {
			l, r := pair[0], pair[1]
			if l >= 0 && l < len(p.Left) && r >= 0 && r < len(p.Right) {
				parts = append(parts, fmt.Sprintf("%s—%s", p.Left[l], p.Right[r]))
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// renderQuitConfirm renders the quit confirmation dialog.
func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("End session early?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Your progress so far has been saved."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

// renderError renders an error message.
func renderError(width int, errMsg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  Press any key to go back.", errMsg))
}
