package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daehan/histudy/internal/card"
)

const sampleDeck = `{
  "title": "Three Kingdoms",
  "cards": [
    {
      "id": "k1",
      "type": "MCQ",
      "question": "Which kingdom unified the Korean peninsula in 676?",
      "options": ["Goguryeo", "Baekje", "Silla"],
      "answer_index": 2,
      "tags": ["silla", "unification"]
    },
    {
      "id": "k2",
      "type": "OX",
      "statement": "Baekje fell before Goguryeo.",
      "answer": true,
      "tags": ["baekje"]
    },
    {
      "id": "k3",
      "type": "CLOZE",
      "text": "The {{kingdom}} alliance with Tang ended in {{year}}.",
      "clozes": {"kingdom": "Silla", "year": "676"},
      "tags": ["silla"]
    }
  ]
}`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sampleDeck))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if d.Title != "Three Kingdoms" {
		t.Errorf("title = %q", d.Title)
	}
	if len(d.Cards) != 3 {
		t.Fatalf("cards = %d", len(d.Cards))
	}
	mcq, ok := d.Cards[0].Payload.(card.MCQ)
	if !ok {
		t.Fatalf("payload = %#v", d.Cards[0].Payload)
	}
	if mcq.AnswerIndex != 2 || len(mcq.Options) != 3 {
		t.Errorf("mcq = %+v", mcq)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{title:`},
		{"missing title", `{"cards":[{"type":"OX","statement":"s","answer":true}]}`},
		{"empty cards", `{"title":"t","cards":[]}`},
		{"unknown type", `{"title":"t","cards":[{"type":"ESSAY","prompt":"p"}]}`},
		{"missing type", `{"title":"t","cards":[{"question":"q"}]}`},
		{"mcq one option", `{"title":"t","cards":[{"type":"MCQ","question":"q","options":["a"],"answer_index":0}]}`},
		{"mcq seven options", `{"title":"t","cards":[{"type":"MCQ","question":"q","options":["a","b","c","d","e","f","g"],"answer_index":0}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.raw)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestParseMCQMissingAnswerIndex(t *testing.T) {
	// Structurally valid; the evaluator scores such cards incorrect rather
	// than the loader rejecting them.
	raw := `{"title":"t","cards":[{"type":"MCQ","question":"q","options":["a","b"]}]}`
	d, err := Parse([]byte(raw))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mcq := d.Cards[0].Payload.(card.MCQ)
	if mcq.AnswerIndex != -1 {
		t.Errorf("AnswerIndex = %d, want sentinel -1", mcq.AnswerIndex)
	}
}

func TestDeckTags(t *testing.T) {
	d, err := Parse([]byte(sampleDeck))
	if err != nil {
		t.Fatal(err)
	}
	got := d.Tags()
	want := []string{"baekje", "silla", "unification"}
	if len(got) != len(want) {
		t.Fatalf("tags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.json")
	if err := os.WriteFile(path, []byte(sampleDeck), 0o644); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(d.Cards) != 3 {
		t.Errorf("cards = %d", len(d.Cards))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
