package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/ui/theme"
)

// Choice is a single-pick option selector used for MCQ and OX cards. After
// Reveal, the correct option is highlighted green and a wrong pick red.
type Choice struct {
	Options  []string
	Cursor   int
	revealed bool
	chosen   int
	correct  int
}

// NewChoice creates a selector over the given options.
func NewChoice(options []string) Choice {
	return Choice{Options: options, chosen: -1, correct: -1}
}

// Update handles keyboard navigation. Selection is confirmed by the caller
// reading Cursor on enter; the component itself never scores.
func (c Choice) Update(msg tea.Msg) (Choice, tea.Cmd) {
	if c.revealed {
		return c, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	}

	return c, nil
}

// Select moves the cursor directly to option i if it exists.
func (c *Choice) Select(i int) bool {
	if i < 0 || i >= len(c.Options) {
		return false
	}
	c.Cursor = i
	return true
}

// Reveal locks the selector and records what to highlight. correct may be -1
// when the card has no valid answer key.
func (c *Choice) Reveal(chosen, correct int) {
	c.revealed = true
	c.chosen = chosen
	c.correct = correct
}

// View renders the option list.
func (c Choice) View() string {
	labels := []string{"A", "B", "C", "D", "E", "F"}

	var s string
	for i, opt := range c.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(labels) {
			label = labels[i]
		}
		prefix := "  "
		if i == c.Cursor && !c.revealed {
			prefix = "▸ "
		}

		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case c.revealed && i == c.correct:
			s += theme.Correct.Render(line) + "\n"
		case c.revealed && i == c.chosen:
			s += theme.Incorrect.Render(line) + "\n"
		case c.revealed:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line) + "\n"
		case i == c.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	return s
}
