package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/daehan/histudy/internal/syncx"
)

// ErrNotFound is returned when a session id has no row.
var ErrNotFound = errors.New("session not found")

// SessionRecord is a stored study session. Cards carry the lifetime
// counters, so reopening a saved session resumes its accumulated stats.
type SessionRecord struct {
	ID          string
	Title       string
	Cards       []syncx.CardState
	Answers     map[string]bool
	Tags        []string
	Score       int
	Total       int
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SessionRepo reads and writes session rows. It implements syncx.Adapter so
// the local database participates in the same fan-out as the remote API.
type SessionRepo struct {
	db *sql.DB
}

// Create inserts a new session row with its initial card snapshot.
func (r *SessionRepo) Create(ctx context.Context, id, title string, cards []syncx.CardState, tags []string) error {
	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, title, cards, tags, total, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, title, string(cardsJSON), string(tagsJSON), len(cards), now, now)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// SaveProgress upserts the card snapshot and merges the answers recorded so
// far. Part of the syncx.Adapter contract.
func (r *SessionRepo) SaveProgress(ctx context.Context, sessionID string, cards []syncx.CardState, answers map[string]bool) error {
	return r.update(ctx, sessionID, cards, answers, nil)
}

// Complete stores the terminal result and echoes the session's stored tags
// back as the summary. Part of the syncx.Adapter contract.
func (r *SessionRepo) Complete(ctx context.Context, sessionID string, result syncx.FinalResult, cards []syncx.CardState, answers map[string]bool) (*syncx.Summary, error) {
	if err := r.update(ctx, sessionID, cards, answers, &result); err != nil {
		return nil, err
	}

	rec, err := r.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &syncx.Summary{Tags: rec.Tags}, nil
}

func (r *SessionRepo) update(ctx context.Context, sessionID string, cards []syncx.CardState, answers map[string]bool, result *syncx.FinalResult) error {
	rec, err := r.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return fmt.Errorf("encode cards: %w", err)
	}
	for k, v := range answers {
		rec.Answers[k] = v
	}
	answersJSON, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	if result != nil {
		_, err = r.db.ExecContext(ctx,
			`UPDATE sessions
			 SET cards = ?, answers = ?, score = ?, total = ?, completed_at = ?, updated_at = ?
			 WHERE id = ?`,
			string(cardsJSON), string(answersJSON),
			result.Score, result.Total, result.CompletedAt.UTC().Format(time.RFC3339),
			now, sessionID)
	} else {
		_, err = r.db.ExecContext(ctx,
			`UPDATE sessions SET cards = ?, answers = ?, updated_at = ? WHERE id = ?`,
			string(cardsJSON), string(answersJSON), now, sessionID)
	}
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Get loads one session by id.
func (r *SessionRepo) Get(ctx context.Context, id string) (*SessionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, cards, answers, tags, score, total, completed_at, created_at, updated_at
		 FROM sessions WHERE id = ?`, id)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

// List returns sessions newest first.
func (r *SessionRepo) List(ctx context.Context, limit int) ([]*SessionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, cards, answers, tags, score, total, completed_at, created_at, updated_at
		 FROM sessions ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var recs []*SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*SessionRecord, error) {
	var (
		rec         SessionRecord
		cardsJSON   string
		answersJSON string
		tagsJSON    string
		completedAt sql.NullString
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(&rec.ID, &rec.Title, &cardsJSON, &answersJSON, &tagsJSON,
		&rec.Score, &rec.Total, &completedAt, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cardsJSON), &rec.Cards); err != nil {
		return nil, fmt.Errorf("decode cards for %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
		return nil, fmt.Errorf("decode answers for %s: %w", rec.ID, err)
	}
	if rec.Answers == nil {
		rec.Answers = make(map[string]bool)
	}
	if err := json.Unmarshal([]byte(tagsJSON), &rec.Tags); err != nil {
		return nil, fmt.Errorf("decode tags for %s: %w", rec.ID, err)
	}

	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at for %s: %w", rec.ID, err)
		}
		rec.CompletedAt = &t
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for %s: %w", rec.ID, err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at for %s: %w", rec.ID, err)
	}
	return &rec, nil
}
