package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/ui/theme"
)

// Matcher pairs items from a left column with items on the right. The cursor
// walks the left column; digits (or enter on a right-column pick) assign the
// highlighted right item to the current left item.
type Matcher struct {
	left  []string
	right []string

	Cursor     int   // position in the left column
	RightPick  int   // highlighted right item
	assignment []int // left index -> right index, -1 when unassigned
	revealed   bool
	verdict    bool
}

// NewMatcher creates a matcher with nothing assigned.
func NewMatcher(left, right []string) Matcher {
	assignment := make([]int, len(left))
	for i := range assignment {
		assignment[i] = -1
	}
	return Matcher{left: left, right: right, assignment: assignment}
}

// Update handles navigation and assignment.
func (m Matcher) Update(msg tea.Msg) (Matcher, tea.Cmd) {
	if m.revealed {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.left)-1 {
			m.Cursor++
		}
	case "left", "h":
		if m.RightPick > 0 {
			m.RightPick--
		}
	case "right", "l":
		if m.RightPick < len(m.right)-1 {
			m.RightPick++
		}
	case "space":
		m.assign(m.RightPick)
	default:
		// Digit keys assign directly: "1" pairs the current left item
		// with the first right item.
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.assign(int(key[0] - '1'))
		}
	}

	return m, nil
}

func (m *Matcher) assign(right int) {
	if right < 0 || right >= len(m.right) {
		return
	}
	// A right item pairs with at most one left item; steal it if taken.
	for i, a := range m.assignment {
		if a == right {
			m.assignment[i] = -1
		}
	}
	m.assignment[m.Cursor] = right
	if m.Cursor < len(m.left)-1 {
		m.Cursor++
	}
}

// Complete reports whether every left item has an assignment.
func (m Matcher) Complete() bool {
	for _, a := range m.assignment {
		if a < 0 {
			return false
		}
	}
	return true
}

// Assignment returns the chosen right index for each left position.
func (m Matcher) Assignment() []int {
	out := make([]int, len(m.assignment))
	copy(out, m.assignment)
	return out
}

// Reveal locks the matcher and records the verdict.
func (m *Matcher) Reveal(correct bool) {
	m.revealed = true
	m.verdict = correct
}

// View renders both columns with current assignments.
func (m Matcher) View() string {
	var s string
	for i, l := range m.left {
		prefix := "  "
		if i == m.Cursor && !m.revealed {
			prefix = "▸ "
		}

		pairing := "___"
		if m.assignment[i] >= 0 {
			pairing = m.right[m.assignment[i]]
		}
		line := fmt.Sprintf("%s%s  →  %s", prefix, l, pairing)

		switch {
		case m.revealed && m.verdict:
			s += theme.Correct.Render(line) + "\n"
		case m.revealed:
			s += theme.Incorrect.Render(line) + "\n"
		case i == m.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	if !m.revealed {
		s += "\n"
		for i, r := range m.right {
			label := fmt.Sprintf("[%d] %s", i+1, r)
			if i == m.RightPick {
				s += theme.Selected.Render(label) + "   "
			} else {
				s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(label) + "   "
			}
		}
		s += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Digits or ←→ + Space to pair, Enter to submit")
	}

	return s
}
