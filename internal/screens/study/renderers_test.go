package study

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/daehan/histudy/internal/card"
)

func TestNewRendererByVariant(t *testing.T) {
	cases := []struct {
		name    string
		payload card.Payload
		want    string
	}{
		{"mcq", card.MCQ{Options: []string{"a", "b"}}, "*study.mcqRenderer"},
		{"short", card.Short{Prompt: "p", Answer: "a"}, "*study.shortRenderer"},
		{"ox", card.OX{Statement: "s"}, "*study.oxRenderer"},
		{"cloze", card.Cloze{Text: "{{a}}", Clozes: map[string]string{"a": "x"}}, "*study.clozeRenderer"},
		{"order", card.Order{Items: []string{"a", "b"}}, "*study.orderRenderer"},
		{"match", card.Match{Left: []string{"a"}, Right: []string{"b"}}, "*study.matchRenderer"},
		{"missing payload", nil, "study.brokenRenderer"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newRenderer(card.Card{Payload: tc.payload})
			if got := fmt.Sprintf("%T", r); got != tc.want {
				t.Errorf("renderer = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestMCQRendererSubmission(t *testing.T) {
	p := card.MCQ{Question: "q", Options: []string{"a", "b", "c"}, AnswerIndex: 1}
	r := newMCQRenderer(p)

	var cr cardRenderer = r
	cr, _ = cr.Update(keyPress('2'))

	sub, ready := cr.Submission()
	if !ready {
		t.Fatal("MCQ must always be submittable")
	}
	if idx, ok := sub.(card.IndexSubmission); !ok || int(idx) != 1 {
		t.Errorf("submission = %#v, want IndexSubmission(1)", sub)
	}
}

func TestOXRendererShortcuts(t *testing.T) {
	r := newOXRenderer()

	var cr cardRenderer = r
	cr, _ = cr.Update(keyPress('x'))
	sub, _ := cr.Submission()
	if b, ok := sub.(card.BoolSubmission); !ok || bool(b) {
		t.Errorf("submission after x = %#v, want BoolSubmission(false)", sub)
	}

	cr, _ = cr.Update(keyPress('o'))
	sub, _ = cr.Submission()
	if b, ok := sub.(card.BoolSubmission); !ok || !bool(b) {
		t.Errorf("submission after o = %#v, want BoolSubmission(true)", sub)
	}
}

func TestShortRendererRequiresText(t *testing.T) {
	r := newShortRenderer()

	if _, ready := r.Submission(); ready {
		t.Error("empty input must not be submittable")
	}

	r.input.Model.SetValue("Sejong")
	sub, ready := r.Submission()
	if !ready {
		t.Fatal("expected submittable input")
	}
	if text, ok := sub.(card.TextSubmission); !ok || string(text) != "Sejong" {
		t.Errorf("submission = %#v", sub)
	}
}

func TestClozeRendererFillsAllBlanks(t *testing.T) {
	p := card.Cloze{
		Text:   "{{king}} created Hangul in {{year}}.",
		Clozes: map[string]string{"king": "Sejong", "year": "1443"},
	}
	r := newClozeRenderer(p)

	if len(r.inputs) != 2 {
		t.Fatalf("inputs = %d, want one per placeholder", len(r.inputs))
	}
	if _, ready := r.Submission(); ready {
		t.Error("incomplete fills must not be submittable")
	}

	r.inputs[0].Model.SetValue("Sejong")
	r.inputs[1].Model.SetValue("1443")

	sub, ready := r.Submission()
	if !ready {
		t.Fatal("expected submittable fills")
	}
	fills, ok := sub.(card.ClozeSubmission)
	if !ok || fills["king"] != "Sejong" || fills["year"] != "1443" {
		t.Errorf("submission = %#v", sub)
	}
}

func TestOrderRendererRearrange(t *testing.T) {
	p := card.Order{Items: []string{"first", "second", "third"}, AnswerOrder: []int{0, 1, 2}}
	r := newOrderRenderer(p)

	// Grab the top item and move it down one slot: [1, 0, 2].
	var cr cardRenderer = r
	cr, _ = cr.Update(tea.KeyPressMsg{Code: tea.KeySpace, Text: " "})
	cr, _ = cr.Update(specialKey(tea.KeyDown))

	sub, ready := cr.Submission()
	if !ready {
		t.Fatal("order must always be submittable")
	}
	got, ok := sub.(card.OrderSubmission)
	if !ok || len(got) != 3 || got[0] != 1 || got[1] != 0 || got[2] != 2 {
		t.Errorf("submission = %#v, want [1 0 2]", sub)
	}
}

func TestMatchRendererRequiresAllPairs(t *testing.T) {
	p := card.Match{
		Left:  []string{"Goryeo", "Joseon"},
		Right: []string{"Wang Geon", "Yi Seong-gye"},
		Pairs: [][2]int{{0, 0}, {1, 1}},
	}
	r := newMatchRenderer(p)

	if _, ready := r.Submission(); ready {
		t.Error("incomplete matcher must not be submittable")
	}

	var cr cardRenderer = r
	cr, _ = cr.Update(keyPress('1')) // Goryeo -> Wang Geon, cursor advances
	cr, _ = cr.Update(keyPress('2')) // Joseon -> Yi Seong-gye

	sub, ready := cr.Submission()
	if !ready {
		t.Fatal("expected submittable matcher")
	}
	got, ok := sub.(card.MatchSubmission)
	if !ok || len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("submission = %#v, want [0 1]", sub)
	}

	// The full loop scores correct.
	c := card.Card{Type: card.TypeMatch, Payload: p}
	if !card.Evaluate(c, sub) {
		t.Error("expected correct evaluation for complete pairing")
	}
}

func TestBrokenRendererScoresIncorrect(t *testing.T) {
	c := card.Card{Type: card.TypeMCQ} // no payload
	r := newRenderer(c)

	sub, ready := r.Submission()
	if !ready {
		t.Fatal("broken renderer must allow skipping")
	}
	if card.Evaluate(c, sub) {
		t.Error("skipped card must score incorrect")
	}
}
