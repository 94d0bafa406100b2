package card

import (
	"slices"
	"strings"
)

// Submission is the sealed set of learner answers, one concrete type per
// card variant.
type Submission interface {
	submission()
}

// IndexSubmission is the chosen option index for an MCQ card.
type IndexSubmission int

// TextSubmission is the typed answer for a SHORT card.
type TextSubmission string

// BoolSubmission is the true/false answer for an OX card.
type BoolSubmission bool

// ClozeSubmission maps placeholder keys to the learner's fills.
type ClozeSubmission map[string]string

// OrderSubmission is the learner's arrangement: the original item index at
// each position.
type OrderSubmission []int

// MatchSubmission maps each left position to the chosen right index.
type MatchSubmission []int

func (IndexSubmission) submission() {}
func (TextSubmission) submission()  {}
func (BoolSubmission) submission()  {}
func (ClozeSubmission) submission() {}
func (OrderSubmission) submission() {}
func (MatchSubmission) submission() {}

// Evaluate reports whether sub is a correct answer for c. It is pure and
// total: malformed cards and mismatched or out-of-range submissions score
// as incorrect, never as errors.
func Evaluate(c Card, sub Submission) bool {
	switch p := c.Payload.(type) {
	case MCQ:
		s, ok := sub.(IndexSubmission)
		if !ok {
			return false
		}
		return evaluateMCQ(p, int(s))
	case Short:
		s, ok := sub.(TextSubmission)
		if !ok {
			return false
		}
		return evaluateShort(p, string(s))
	case OX:
		s, ok := sub.(BoolSubmission)
		if !ok {
			return false
		}
		return bool(s) == p.Answer
	case Cloze:
		s, ok := sub.(ClozeSubmission)
		if !ok {
			return false
		}
		return evaluateCloze(p, s)
	case Order:
		s, ok := sub.(OrderSubmission)
		if !ok {
			return false
		}
		return len(p.AnswerOrder) > 0 && slices.Equal([]int(s), p.AnswerOrder)
	case Match:
		s, ok := sub.(MatchSubmission)
		if !ok {
			return false
		}
		return evaluateMatch(p, s)
	}
	return false
}

func evaluateMCQ(p MCQ, chosen int) bool {
	// A missing answer_index decodes to -1 and can never match.
	if p.AnswerIndex < 0 || p.AnswerIndex >= len(p.Options) {
		return false
	}
	return chosen == p.AnswerIndex
}

func evaluateShort(p Short, typed string) bool {
	got := normalize(typed)
	if got == normalize(p.Answer) {
		return true
	}
	for _, alias := range p.Aliases {
		if got == normalize(alias) {
			return true
		}
	}
	return false
}

// evaluateCloze requires every placeholder in the text to be filled with
// its expected value: trimmed, case-sensitive. A key absent from the
// submission counts as an empty fill; a key absent from the expected
// mapping makes the card unanswerable.
func evaluateCloze(p Cloze, fills ClozeSubmission) bool {
	for _, key := range Placeholders(p.Text) {
		want, ok := p.Clozes[key]
		if !ok {
			return false
		}
		if strings.TrimSpace(fills[key]) != want {
			return false
		}
	}
	return true
}

func evaluateMatch(p Match, chosen MatchSubmission) bool {
	if len(p.Left) == 0 || len(chosen) != len(p.Left) {
		return false
	}
	want := make(map[int]int, len(p.Pairs))
	for _, pr := range p.Pairs {
		want[pr[0]] = pr[1]
	}
	for l := range p.Left {
		r, ok := want[l]
		if !ok || chosen[l] != r {
			return false
		}
	}
	return true
}

// normalize applies the SHORT comparison rules: trim then case-fold.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
