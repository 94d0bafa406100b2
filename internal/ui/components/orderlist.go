package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/ui/theme"
)

// OrderList lets the learner rearrange items into what they think is the
// right sequence. Space grabs the item under the cursor; moving a grabbed
// item swaps it along. Arrangement returns original indices in display order.
type OrderList struct {
	items    []string
	order    []int // display position -> original index
	Cursor   int
	grabbed  bool
	revealed bool
	verdict  bool
}

// NewOrderList creates a list showing items in their given (shuffled) order.
func NewOrderList(items []string) OrderList {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	return OrderList{items: items, order: order}
}

// Update handles navigation and grabbing.
func (o OrderList) Update(msg tea.Msg) (OrderList, tea.Cmd) {
	if o.revealed {
		return o, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			if o.grabbed {
				o.order[o.Cursor], o.order[o.Cursor-1] = o.order[o.Cursor-1], o.order[o.Cursor]
			}
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.order)-1 {
			if o.grabbed {
				o.order[o.Cursor], o.order[o.Cursor+1] = o.order[o.Cursor+1], o.order[o.Cursor]
			}
			o.Cursor++
		}
	case "space":
		o.grabbed = !o.grabbed
	}

	return o, nil
}

// Arrangement returns the original index of each item in display order.
func (o OrderList) Arrangement() []int {
	out := make([]int, len(o.order))
	copy(out, o.order)
	return out
}

// Reveal locks the list and records the verdict.
func (o *OrderList) Reveal(correct bool) {
	o.revealed = true
	o.grabbed = false
	o.verdict = correct
}

// View renders the list.
func (o OrderList) View() string {
	var s string
	for pos, orig := range o.order {
		prefix := "  "
		if pos == o.Cursor && !o.revealed {
			if o.grabbed {
				prefix = "⇅ "
			} else {
				prefix = "▸ "
			}
		}

		line := fmt.Sprintf("%s%d. %s", prefix, pos+1, o.items[orig])

		switch {
		case o.revealed && o.verdict:
			s += theme.Correct.Render(line) + "\n"
		case o.revealed:
			s += theme.Incorrect.Render(line) + "\n"
		case pos == o.Cursor:
			s += theme.Selected.Render(line) + "\n"
		default:
			s += theme.Unselected.Render(line) + "\n"
		}
	}

	if !o.revealed {
		hint := "Space to grab, arrows to move, Enter to submit"
		if o.grabbed {
			hint = "Move with arrows, Space to drop"
		}
		s += "\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(hint)
	}

	return s
}
