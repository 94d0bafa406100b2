// Package syncx defines the boundary for persisting study-session progress
// and its concrete adapters. All syncing is best-effort: the session state
// machine never blocks on, or rolls back for, an adapter call.
package syncx

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/daehan/histudy/internal/card"
)

// CardState is one card plus its lifetime counters, the unit of the
// progress snapshot sent to adapters.
type CardState struct {
	Card     card.Card
	Attempts int
	Correct  int
}

// FinalResult carries the terminal sync payload for a completed pass.
type FinalResult struct {
	Score       int
	Total       int
	CompletedAt time.Time
}

// Reward is display metadata attached to a session by the backend.
type Reward struct {
	Title    string `json:"title"`
	Duration string `json:"duration"`
}

// Summary is what an adapter reports back after a completed pass. Tags and
// Rewards are merged into session metadata for display only.
type Summary struct {
	Tags    []string `json:"tags"`
	Rewards []Reward `json:"rewards"`
}

// Adapter persists session progress. SaveProgress is called once per scored
// submission, Complete exactly once per pass. Implementations own any retry
// policy; callers treat failures as non-fatal.
type Adapter interface {
	SaveProgress(ctx context.Context, sessionID string, cards []CardState, answers map[string]bool) error
	Complete(ctx context.Context, sessionID string, result FinalResult, cards []CardState, answers map[string]bool) (*Summary, error)
}

// Noop discards everything. Used when no sync target is configured.
type Noop struct{}

func (Noop) SaveProgress(context.Context, string, []CardState, map[string]bool) error {
	return nil
}

func (Noop) Complete(context.Context, string, FinalResult, []CardState, map[string]bool) (*Summary, error) {
	return nil, nil
}

// MarshalJSON flattens the card and folds the counters into the same
// object, matching the stored card payload shape.
func (s CardState) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(s.Card)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	m["attempts"] = s.Attempts
	m["correct"] = s.Correct
	return json.Marshal(m)
}

// UnmarshalJSON splits the flat object back into card and counters.
func (s *CardState) UnmarshalJSON(data []byte) error {
	var counters struct {
		Attempts int `json:"attempts"`
		Correct  int `json:"correct"`
	}
	if err := json.Unmarshal(data, &counters); err != nil {
		return fmt.Errorf("decode card state: %w", err)
	}
	if err := json.Unmarshal(data, &s.Card); err != nil {
		return err
	}
	s.Attempts = counters.Attempts
	s.Correct = counters.Correct
	return nil
}
