package study

import (
	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/syncx"
)

// CardOutcome is one row of the pass summary.
type CardOutcome struct {
	Type     card.Type
	Prompt   string
	Correct  bool
	Attempts int
}

// Summary holds the data displayed after a completed pass.
type Summary struct {
	Title    string
	Score    int
	Total    int
	Accuracy float64
	Outcomes []CardOutcome
	Tags     []string
	Rewards  []syncx.Reward
}

// BuildSummary snapshots the current pass for the summary screen.
func BuildSummary(s *Session) *Summary {
	outcomes := make([]CardOutcome, 0, s.Len())
	for i, sc := range s.cards {
		outcome := CardOutcome{
			Type:     sc.Card.Type,
			Prompt:   sc.Card.Prompt(),
			Attempts: sc.Attempts,
		}
		if r := s.Result(i); r != nil {
			outcome.Correct = r.Correct
		}
		outcomes = append(outcomes, outcome)
	}

	score := s.Score()
	total := s.Len()
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(score) / float64(total)
	}

	return &Summary{
		Title:    s.Title(),
		Score:    score,
		Total:    total,
		Accuracy: accuracy,
		Outcomes: outcomes,
		Tags:     s.Tags(),
		Rewards:  s.Rewards(),
	}
}
