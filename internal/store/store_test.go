package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/daehan/histudy/internal/card"
	"github.com/daehan/histudy/internal/syncx"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleStates() []syncx.CardState {
	return []syncx.CardState{
		{
			Card: card.Card{
				ID:      "q1",
				Type:    card.TypeMCQ,
				Tags:    []string{"joseon"},
				Payload: card.MCQ{Question: "Who founded Joseon?", Options: []string{"Yi Seong-gye", "Wang Geon"}, AnswerIndex: 0},
			},
		},
		{
			Card: card.Card{
				ID:      "q2",
				Type:    card.TypeOX,
				Payload: card.OX{Statement: "Hangul was promulgated in 1446.", Answer: true},
			},
		},
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not asserted here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSessionCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	err := repo.Create(ctx, "s1", "Joseon Basics", sampleStates(), []string{"joseon"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	rec, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.Title != "Joseon Basics" || rec.Total != 2 {
		t.Errorf("record = %+v", rec)
	}
	if rec.CompletedAt != nil {
		t.Error("fresh session must not be completed")
	}
	if len(rec.Cards) != 2 || rec.Cards[0].Card.ID != "q1" {
		t.Errorf("cards = %+v", rec.Cards)
	}
	if _, ok := rec.Cards[0].Card.Payload.(card.MCQ); !ok {
		t.Errorf("payload type = %#v", rec.Cards[0].Card.Payload)
	}

	if _, err := repo.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("get missing: %v, want ErrNotFound", err)
	}
}

func TestSessionSaveProgressMergesAnswers(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	states := sampleStates()
	if err := repo.Create(ctx, "s1", "t", states, nil); err != nil {
		t.Fatal(err)
	}

	states[0].Attempts, states[0].Correct = 1, 1
	if err := repo.SaveProgress(ctx, "s1", states, map[string]bool{"q1": true}); err != nil {
		t.Fatalf("save progress 1: %v", err)
	}
	states[1].Attempts = 1
	if err := repo.SaveProgress(ctx, "s1", states, map[string]bool{"q2": false}); err != nil {
		t.Fatalf("save progress 2: %v", err)
	}

	rec, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Answers) != 2 || !rec.Answers["q1"] || rec.Answers["q2"] {
		t.Errorf("answers = %v, want merged {q1:true q2:false}", rec.Answers)
	}
	if rec.Cards[0].Attempts != 1 || rec.Cards[0].Correct != 1 {
		t.Errorf("counters = %d/%d", rec.Cards[0].Attempts, rec.Cards[0].Correct)
	}
}

func TestSessionComplete(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	if err := repo.Create(ctx, "s1", "t", sampleStates(), []string{"joseon", "hangul"}); err != nil {
		t.Fatal(err)
	}

	completed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	summary, err := repo.Complete(ctx, "s1",
		syncx.FinalResult{Score: 2, Total: 2, CompletedAt: completed},
		sampleStates(), map[string]bool{"q1": true, "q2": true})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if summary == nil || len(summary.Tags) != 2 {
		t.Errorf("summary = %+v, want stored tags echoed", summary)
	}

	rec, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Score != 2 {
		t.Errorf("score = %d", rec.Score)
	}
	if rec.CompletedAt == nil || !rec.CompletedAt.Equal(completed) {
		t.Errorf("completed_at = %v", rec.CompletedAt)
	}

	if _, err := repo.Complete(ctx, "missing", syncx.FinalResult{}, nil, nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("complete missing: %v, want ErrNotFound", err)
	}
}

func TestSessionList(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Create(ctx, id, "t-"+id, sampleStates(), nil); err != nil {
			t.Fatal(err)
		}
	}
	// Touch "a" so it sorts newest. The RFC3339 timestamps only have second
	// precision, so force a distinct value.
	if _, err := s.DB().Exec(`UPDATE sessions SET updated_at = ? WHERE id = 'a'`,
		time.Now().Add(time.Hour).UTC().Format(time.RFC3339)); err != nil {
		t.Fatal(err)
	}

	recs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("listed %d sessions", len(recs))
	}
	if recs[0].ID != "a" {
		t.Errorf("first = %s, want most recently updated", recs[0].ID)
	}

	recs, err = repo.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Errorf("limit ignored, listed %d", len(recs))
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestAnswerEvents(t *testing.T) {
	s := openTestStore(t)
	events := s.Events()
	ctx := context.Background()

	appends := []AnswerEventData{
		{SessionID: "s1", CardID: "q1", CardType: card.TypeMCQ, Prompt: "p", Correct: false},
		{SessionID: "s1", CardID: "q1", CardType: card.TypeMCQ, Prompt: "p", Correct: true},
		{SessionID: "s1", CardID: "q2", CardType: card.TypeOX, Prompt: "p2", Correct: true},
		{SessionID: "s2", CardID: "q1", CardType: card.TypeMCQ, Prompt: "p", Correct: true},
	}
	for i, a := range appends {
		if err := events.AppendAnswer(ctx, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	acc, err := events.CardAccuracy(ctx, "q1")
	if err != nil {
		t.Fatalf("accuracy: %v", err)
	}
	if acc < 0.66 || acc > 0.67 {
		t.Errorf("q1 accuracy = %f, want 2/3", acc)
	}

	acc, err = events.CardAccuracy(ctx, "unseen")
	if err != nil || acc != 0 {
		t.Errorf("unseen accuracy = %f, %v", acc, err)
	}

	n, err := events.SessionAttempts(ctx, "s1")
	if err != nil || n != 3 {
		t.Errorf("s1 attempts = %d, %v", n, err)
	}
}

func TestMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"sessions", "answer_events", "global_sequence"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}
