package syncx

import (
	"context"
	"errors"
)

// Multi fans a sync call out to several adapters, typically the local store
// plus a remote API. Every adapter is attempted even when an earlier one
// fails; the errors are joined.
type Multi struct {
	adapters []Adapter
}

// NewMulti builds a fan-out adapter. Nil entries are skipped.
func NewMulti(adapters ...Adapter) *Multi {
	kept := make([]Adapter, 0, len(adapters))
	for _, a := range adapters {
		if a != nil {
			kept = append(kept, a)
		}
	}
	return &Multi{adapters: kept}
}

func (m *Multi) SaveProgress(ctx context.Context, sessionID string, cards []CardState, answers map[string]bool) error {
	var errs []error
	for _, a := range m.adapters {
		if err := a.SaveProgress(ctx, sessionID, cards, answers); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Complete returns the first non-nil summary so remote reward metadata wins
// over the local store's echo.
func (m *Multi) Complete(ctx context.Context, sessionID string, result FinalResult, cards []CardState, answers map[string]bool) (*Summary, error) {
	var (
		summary *Summary
		errs    []error
	)
	for _, a := range m.adapters {
		s, err := a.Complete(ctx, sessionID, result, cards, answers)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if summary == nil {
			summary = s
		}
	}
	return summary, errors.Join(errs...)
}
