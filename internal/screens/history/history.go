// Package history lists past study sessions from the local store.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/screen"
	"github.com/daehan/histudy/internal/store"
	"github.com/daehan/histudy/internal/ui/layout"
	"github.com/daehan/histudy/internal/ui/theme"
)

type historyLoadedMsg struct {
	Sessions []*store.SessionRecord
	Err      error
}

// HistoryScreen displays past sessions with per-card detail on expand.
type HistoryScreen struct {
	repo     *store.SessionRepo
	sessions []*store.SessionRecord
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(repo *store.SessionRepo) *HistoryScreen {
	return &HistoryScreen{
		repo:     repo,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		sessions, err := s.repo.List(context.Background(), 50)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		return historyLoadedMsg{Sessions: sessions}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Q", Description: "Quit"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.sessions = msg.Sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc":
			return s, tea.Quit
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions yet. Start studying!")
	}

	var b strings.Builder
	b.WriteString("\n")

	for i, rec := range s.sessions {
		dateStr := rec.UpdatedAt.Format("Jan 02, 2006")

		status := lipgloss.NewStyle().Foreground(theme.TextDim).Render("in progress")
		if rec.CompletedAt != nil {
			status = fmt.Sprintf("%d/%d", rec.Score, rec.Total)
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		title := rec.Title
		if title == "" {
			title = rec.ID
		}
		line := fmt.Sprintf("%s%s  %-30s  %d cards  %s", prefix, dateStr, title, rec.Total, status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, cs := range rec.Cards {
				mark := lipgloss.NewStyle().Foreground(theme.TextDim).Render("·")
				if answered, ok := rec.Answers[cs.Card.ID]; ok {
					if answered {
						mark = theme.Correct.Render("✓")
					} else {
						mark = theme.Incorrect.Render("✗")
					}
				}
				detail := fmt.Sprintf("    %s [%-5s] %s  (%d/%d lifetime)",
					mark, cs.Card.Type, truncate(cs.Card.Prompt(), 44), cs.Correct, cs.Attempts)
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit || limit < 4 {
		return s
	}
	return s[:limit-3] + "..."
}
