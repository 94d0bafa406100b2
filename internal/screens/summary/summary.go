// Package summary displays the end-of-pass score and per-card outcomes.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/screen"
	sess "github.com/daehan/histudy/internal/study"
	"github.com/daehan/histudy/internal/ui/components"
	"github.com/daehan/histudy/internal/ui/layout"
	"github.com/daehan/histudy/internal/ui/theme"
)

// SummaryScreen displays the pass summary.
type SummaryScreen struct {
	summary   *sess.Summary
	onRestart tea.Cmd
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. onRestart is run when the learner chooses to
// study the deck again; nil disables the restart hint.
func New(summary *sess.Summary, onRestart tea.Cmd) *SummaryScreen {
	return &SummaryScreen{summary: summary, onRestart: onRestart}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if s.onRestart != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Study again"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Done"})
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "r", "R":
			if s.onRestart != nil {
				return s, s.onRestart
			}
		case "q", "Q", "enter", "esc":
			return s, tea.Quit
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Deck complete!"))
	b.WriteString("\n")
	if sum.Title != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render(sum.Title))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	scoreLine := fmt.Sprintf("Score: %d / %d", sum.Score, sum.Total)
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(scoreLine))
	b.WriteString("\n\n")

	bar := components.NewProgressBar("", sum.Accuracy, true, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render("Cards")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, o := range sum.Outcomes {
		mark := theme.Incorrect.Render("✗")
		if o.Correct {
			mark = theme.Correct.Render("✓")
		}
		prompt := o.Prompt
		if limit := min(width-24, 56); len(prompt) > limit && limit > 3 {
			prompt = prompt[:limit-3] + "..."
		}
		line := fmt.Sprintf("  %s [%-5s] %s", mark, o.Type, prompt)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Text).Render(line)))
		b.WriteString("\n")
	}

	if len(sum.Tags) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			theme.Tag.Render(strings.Join(sum.Tags, " · "))))
		b.WriteString("\n")
	}

	if len(sum.Rewards) > 0 {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.TextDim).Render("Rewards")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
		for _, reward := range sum.Rewards {
			line := fmt.Sprintf("  ★ %s", reward.Title)
			if reward.Duration != "" {
				line += fmt.Sprintf(" (%s)", reward.Duration)
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Accent).Render(line)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
