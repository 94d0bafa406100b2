// Package study drives a learner through an ordered list of quiz cards,
// tracking attempts and correctness and syncing progress best-effort.
package study

import (
	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/syncx"
)

// SessionCard pairs a card with its lifetime counters. Attempts increments
// once per scored submission, Correct only on a correct one. Neither is
// ever decremented — the counters accumulate across passes.
type SessionCard struct {
	Card     card.Card
	Attempts int
	Correct  int
}

// Result is the per-pass outcome for one card.
type Result struct {
	Correct bool
}

// Wrap turns freshly loaded cards into session cards with zeroed counters.
func Wrap(cards []card.Card) []*SessionCard {
	wrapped := make([]*SessionCard, len(cards))
	for i, c := range cards {
		wrapped[i] = &SessionCard{Card: c}
	}
	return wrapped
}

// FromStates rebuilds session cards from a stored snapshot, preserving the
// accumulated counters.
func FromStates(states []syncx.CardState) []*SessionCard {
	cards := make([]*SessionCard, len(states))
	for i, st := range states {
		cards[i] = &SessionCard{Card: st.Card, Attempts: st.Attempts, Correct: st.Correct}
	}
	return cards
}

// Binding is what a rendering layer needs for the active card: the card
// itself, whether input is locked, and the submission callback. Exactly one
// OnSubmit call is scored per visit to a card.
type Binding struct {
	Card     card.Card
	Disabled bool
	OnSubmit func(correct bool)
}
