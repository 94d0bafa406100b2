package syncx

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daehan/histudy/internal/card"
)

func testStates() []CardState {
	return []CardState{
		{
			Card: card.Card{
				ID:      "q1",
				Type:    card.TypeOX,
				Payload: card.OX{Statement: "The Goryeo dynasty preceded Joseon.", Answer: true},
			},
			Attempts: 2,
			Correct:  1,
		},
	}
}

func TestHTTPAdapterSaveProgress(t *testing.T) {
	var (
		gotMethod string
		gotPath   string
		gotKey    string
		gotBody   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &gotBody); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL+"/", "secret")
	err := a.SaveProgress(context.Background(), "abc-123", testStates(), map[string]bool{"q1": false})
	if err != nil {
		t.Fatalf("SaveProgress: %v", err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("method = %s, want PATCH", gotMethod)
	}
	if gotPath != "/study-sessions/abc-123" {
		t.Errorf("path = %s", gotPath)
	}
	if gotKey != "secret" {
		t.Errorf("X-API-Key = %q", gotKey)
	}

	cards, ok := gotBody["cards"].([]any)
	if !ok || len(cards) != 1 {
		t.Fatalf("cards = %v", gotBody["cards"])
	}
	first := cards[0].(map[string]any)
	if first["attempts"] != float64(2) || first["correct"] != float64(1) {
		t.Errorf("counters not flattened into card object: %v", first)
	}
	if first["type"] != "OX" {
		t.Errorf("card type = %v", first["type"])
	}
	answers := gotBody["answers"].(map[string]any)
	if answers["q1"] != false {
		t.Errorf("answers = %v", answers)
	}
	if _, present := gotBody["score"]; present {
		t.Error("incremental payload must not carry a score")
	}
}

func TestHTTPAdapterComplete(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"tags":["joseon"],"rewards":[{"title":"Game hour","duration":"1h"}]}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL, "")
	completed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("KST", 9*3600))
	summary, err := a.Complete(context.Background(), "abc-123",
		FinalResult{Score: 1, Total: 1, CompletedAt: completed}, testStates(), nil)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if gotBody["score"] != float64(1) || gotBody["total"] != float64(1) {
		t.Errorf("score/total = %v/%v", gotBody["score"], gotBody["total"])
	}
	if gotBody["completed_at"] != "2025-06-01T03:00:00Z" {
		t.Errorf("completed_at = %v, want UTC RFC3339", gotBody["completed_at"])
	}

	if summary == nil {
		t.Fatal("summary not decoded")
	}
	if len(summary.Tags) != 1 || summary.Tags[0] != "joseon" {
		t.Errorf("tags = %v", summary.Tags)
	}
	if len(summary.Rewards) != 1 || summary.Rewards[0].Title != "Game hour" {
		t.Errorf("rewards = %v", summary.Rewards)
	}
}

func TestHTTPAdapterErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL, "wrong")
	if err := a.SaveProgress(context.Background(), "abc", testStates(), nil); err == nil {
		t.Error("expected error for HTTP 401")
	}
}

func TestHTTPAdapterOmitsHeaderWithoutKey(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["X-Api-Key"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	a := NewHTTPAdapter(srv.URL, "")
	if err := a.SaveProgress(context.Background(), "abc", nil, nil); err != nil {
		t.Fatal(err)
	}
	if sawHeader {
		t.Error("X-API-Key sent despite empty key")
	}
}

func TestCardStateRoundTrip(t *testing.T) {
	raw, err := json.Marshal(testStates()[0])
	if err != nil {
		t.Fatal(err)
	}
	var back CardState
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatal(err)
	}
	if back.Attempts != 2 || back.Correct != 1 {
		t.Errorf("counters = %d/%d", back.Attempts, back.Correct)
	}
	if back.Card.ID != "q1" || back.Card.Type != card.TypeOX {
		t.Errorf("card = %+v", back.Card)
	}
	ox, ok := back.Card.Payload.(card.OX)
	if !ok || !ox.Answer {
		t.Errorf("payload = %#v", back.Card.Payload)
	}
}
