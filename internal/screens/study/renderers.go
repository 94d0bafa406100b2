package study

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/ui/components"
	"github.com/daehan/histudy/internal/ui/theme"
)

// cardRenderer is the per-variant input surface for one card. The screen
// drives it: forward keys with Update, read the answer with Submission on
// enter, then lock it with Reveal once scored.
type cardRenderer interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (cardRenderer, tea.Cmd)
	View(width int) string

	// Submission returns the learner's answer, or false when the input is
	// not yet complete enough to score.
	Submission() (card.Submission, bool)

	// Reveal locks input and shows the verdict.
	Reveal(correct bool)
}

// newRenderer builds the input surface for a card. Unknown payloads fall
// back to an inert renderer that scores incorrect, mirroring the evaluator.
func newRenderer(c card.Card) cardRenderer {
	switch p := c.Payload.(type) {
	case card.MCQ:
		return newMCQRenderer(p)
	case card.Short:
		return newShortRenderer()
	case card.OX:
		return newOXRenderer()
	case card.Cloze:
		return newClozeRenderer(p)
	case card.Order:
		return newOrderRenderer(p)
	case card.Match:
		return newMatchRenderer(p)
	default:
		return brokenRenderer{}
	}
}

// mcqRenderer renders a single-pick option list.
type mcqRenderer struct {
	payload card.MCQ
	choice  components.Choice
}

func newMCQRenderer(p card.MCQ) *mcqRenderer {
	return &mcqRenderer{payload: p, choice: components.NewChoice(p.Options)}
}

func (r *mcqRenderer) Init() tea.Cmd { return nil }

func (r *mcqRenderer) Update(msg tea.Msg) (cardRenderer, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		key := kmsg.String()
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			r.choice.Select(int(key[0] - '1'))
			return r, nil
		}
	}
	var cmd tea.Cmd
	r.choice, cmd = r.choice.Update(msg)
	return r, cmd
}

func (r *mcqRenderer) View(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, r.choice.View())
}

func (r *mcqRenderer) Submission() (card.Submission, bool) {
	return card.IndexSubmission(r.choice.Cursor), true
}

func (r *mcqRenderer) Reveal(bool) {
	r.choice.Reveal(r.choice.Cursor, r.payload.AnswerIndex)
}

// oxRenderer is a two-option true/false pick.
type oxRenderer struct {
	choice  components.Choice
	correct int
}

func newOXRenderer() *oxRenderer {
	return &oxRenderer{choice: components.NewChoice([]string{"O  (true)", "X  (false)"}), correct: -1}
}

func (r *oxRenderer) Init() tea.Cmd { return nil }

func (r *oxRenderer) Update(msg tea.Msg) (cardRenderer, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "o", "O":
			r.choice.Select(0)
			return r, nil
		case "x", "X":
			r.choice.Select(1)
			return r, nil
		}
	}
	var cmd tea.Cmd
	r.choice, cmd = r.choice.Update(msg)
	return r, cmd
}

func (r *oxRenderer) View(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, r.choice.View())
}

func (r *oxRenderer) Submission() (card.Submission, bool) {
	return card.BoolSubmission(r.choice.Cursor == 0), true
}

func (r *oxRenderer) Reveal(correct bool) {
	chosen := r.choice.Cursor
	answer := chosen
	if !correct {
		answer = 1 - chosen
	}
	r.choice.Reveal(chosen, answer)
}

// shortRenderer is a free-text answer field.
type shortRenderer struct {
	input components.TextInput
}

func newShortRenderer() *shortRenderer {
	return &shortRenderer{input: components.NewTextInput("Type your answer...", 80)}
}

func (r *shortRenderer) Init() tea.Cmd { return r.input.Init() }

func (r *shortRenderer) Update(msg tea.Msg) (cardRenderer, tea.Cmd) {
	var cmd tea.Cmd
	r.input, cmd = r.input.Update(msg)
	return r, cmd
}

func (r *shortRenderer) View(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+r.input.View())
}

func (r *shortRenderer) Submission() (card.Submission, bool) {
	value := strings.TrimSpace(r.input.Value())
	if value == "" {
		return nil, false
	}
	return card.TextSubmission(r.input.Value()), true
}

func (r *shortRenderer) Reveal(correct bool) {
	r.input.Submit(correct)
}

// clozeRenderer shows the gapped text with one input per placeholder.
type clozeRenderer struct {
	payload card.Cloze
	keys    []string
	inputs  []components.TextInput
	focus   int
}

func newClozeRenderer(p card.Cloze) *clozeRenderer {
	keys := card.Placeholders(p.Text)
	inputs := make([]components.TextInput, len(keys))
	for i, key := range keys {
		inputs[i] = components.NewTextInput(key, 60)
		if i > 0 {
			inputs[i].Model.Blur()
		}
	}
	return &clozeRenderer{payload: p, keys: keys, inputs: inputs}
}

func (r *clozeRenderer) Init() tea.Cmd {
	if len(r.inputs) == 0 {
		return nil
	}
	return r.inputs[0].Init()
}

func (r *clozeRenderer) Update(msg tea.Msg) (cardRenderer, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "tab", "down":
			return r, r.setFocus((r.focus + 1) % max(len(r.inputs), 1))
		case "shift+tab", "up":
			return r, r.setFocus((r.focus - 1 + len(r.inputs)) % max(len(r.inputs), 1))
		}
	}
	if r.focus < len(r.inputs) {
		var cmd tea.Cmd
		r.inputs[r.focus], cmd = r.inputs[r.focus].Update(msg)
		return r, cmd
	}
	return r, nil
}

func (r *clozeRenderer) setFocus(i int) tea.Cmd {
	if len(r.inputs) == 0 {
		return nil
	}
	r.inputs[r.focus].Model.Blur()
	r.focus = i
	return r.inputs[i].Model.Focus()
}

func (r *clozeRenderer) View(width int) string {
	// Show the text with numbered gaps, then the fill-in fields.
	display := r.payload.Text
	for i, key := range r.keys {
		display = strings.ReplaceAll(display,
			"{{"+key+"}}",
			theme.Blank.Render(fmt.Sprintf("[%d]____", i+1)))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Width(min(width-8, 70)).
		Foreground(theme.Text).
		Render(display))
	b.WriteString("\n\n")

	for i := range r.inputs {
		marker := "  "
		if i == r.focus {
			marker = "▸ "
		}
		b.WriteString(fmt.Sprintf("%s[%d] %s\n", marker, i+1, r.inputs[i].View()))
	}

	if len(r.inputs) == 0 {
		b.WriteString(theme.Hint.Render("This card has no blanks to fill."))
	}

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, b.String())
}

func (r *clozeRenderer) Submission() (card.Submission, bool) {
	fills := make(map[string]string, len(r.keys))
	for i, key := range r.keys {
		value := strings.TrimSpace(r.inputs[i].Value())
		if value == "" {
			return nil, false
		}
		fills[key] = value
	}
	return card.ClozeSubmission(fills), true
}

// Reveal marks each blank individually; the per-card verdict is already
// the AND of the blanks, so the parameter carries no extra information.
func (r *clozeRenderer) Reveal(_ bool) {
	for i, key := range r.keys {
		want, ok := r.payload.Clozes[key]
		valid := ok && strings.TrimSpace(r.inputs[i].Value()) == want
		r.inputs[i].Submit(valid)
	}
}

// orderRenderer is a rearrangeable sequence list.
type orderRenderer struct {
	list components.OrderList
}

func newOrderRenderer(p card.Order) *orderRenderer {
	return &orderRenderer{list: components.NewOrderList(p.Items)}
}

func (r *orderRenderer) Init() tea.Cmd { return nil }

func (r *orderRenderer) Update(msg tea.Msg) (cardRenderer, tea.Cmd) {
	var cmd tea.Cmd
	r.list, cmd = r.list.Update(msg)
	return r, cmd
}

func (r *orderRenderer) View(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, r.list.View())
}

func (r *orderRenderer) Submission() (card.Submission, bool) {
	return card.OrderSubmission(r.list.Arrangement()), true
}

func (r *orderRenderer) Reveal(correct bool) {
	r.list.Reveal(correct)
}

// matchRenderer pairs the left column with right-column picks.
type matchRenderer struct {
	matcher components.Matcher
}

func newMatchRenderer(p card.Match) *matchRenderer {
	return &matchRenderer{matcher: components.NewMatcher(p.Left, p.Right)}
}

func (r *matchRenderer) Init() tea.Cmd { return nil }

func (r *matchRenderer) Update(msg tea.Msg) (cardRenderer, tea.Cmd) {
	var cmd tea.Cmd
	r.matcher, cmd = r.matcher.Update(msg)
	return r, cmd
}

func (r *matchRenderer) View(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, r.matcher.View())
}

func (r *matchRenderer) Submission() (card.Submission, bool) {
	if !r.matcher.Complete() {
		return nil, false
	}
	return card.MatchSubmission(r.matcher.Assignment()), true
}

func (r *matchRenderer) Reveal(correct bool) {
	r.matcher.Reveal(correct)
}

// brokenRenderer handles cards whose payload could not be interpreted.
// Enter scores them incorrect so the pass can continue.
type brokenRenderer struct{}

func (brokenRenderer) Init() tea.Cmd                         { return nil }
func (b brokenRenderer) Update(tea.Msg) (cardRenderer, tea.Cmd) { return b, nil }
func (brokenRenderer) Reveal(bool)                           {}

func (brokenRenderer) View(width int) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.Hint.Render("This card could not be displayed. Press Enter to skip."))
}

func (brokenRenderer) Submission() (card.Submission, bool) {
	return nil, true
}
