package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/daehan/histudy/internal/card"
)

// sequenceCounter manages the global monotonic sequence number shared across
// event appends. A single increasing sequence keeps the answer log strictly
// ordered even when multiple sessions write concurrently.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// AnswerEventData is one scored submission for the append-only log.
type AnswerEventData struct {
	SessionID string
	CardID    string
	CardType  card.Type
	Prompt    string
	Correct   bool
}

// EventRepo appends and queries the answer log.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

// AppendAnswer records one scored submission.
func (r *EventRepo) AppendAnswer(ctx context.Context, data AnswerEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO answer_events (sequence, session_id, card_id, card_type, prompt, correct, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		seqNum, data.SessionID, data.CardID, string(data.CardType), data.Prompt,
		data.Correct, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

// CardAccuracy returns the lifetime accuracy for one card across all
// sessions, or 0 with no attempts.
func (r *EventRepo) CardAccuracy(ctx context.Context, cardID string) (float64, error) {
	var attempts, correct int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(correct), 0) FROM answer_events WHERE card_id = ?`,
		cardID).Scan(&attempts, &correct)
	if err != nil {
		return 0, fmt.Errorf("query card accuracy: %w", err)
	}
	if attempts == 0 {
		return 0, nil
	}
	return float64(correct) / float64(attempts), nil
}

// SessionAttempts counts the scored submissions logged for a session.
func (r *EventRepo) SessionAttempts(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM answer_events WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("query session attempts: %w", err)
	}
	return n, nil
}
