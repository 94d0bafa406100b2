package card

import (
	"encoding/json"
	"slices"
	"testing"
)

func decode(t *testing.T, raw string) Card {
	t.Helper()
	var c Card
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unmarshal card: %v", err)
	}
	return c
}

func TestDecodeMCQ(t *testing.T) {
	c := decode(t, `{
		"id": 42,
		"type": "MCQ",
		"question": "Capital of Goryeo?",
		"options": ["Gaegyeong", "Hanyang"],
		"answer_index": 0,
		"explain": "Gaegyeong, modern Kaesong.",
		"tags": ["goryeo"]
	}`)

	if c.ID != "42" {
		t.Errorf("ID = %q, want 42 (numeric ids are stringified)", c.ID)
	}
	p, ok := c.Payload.(MCQ)
	if !ok {
		t.Fatalf("payload = %T, want MCQ", c.Payload)
	}
	if p.AnswerIndex != 0 || len(p.Options) != 2 {
		t.Errorf("unexpected payload %+v", p)
	}
	if !Evaluate(c, IndexSubmission(0)) {
		t.Error("decoded card should accept its answer")
	}
}

func TestDecodeMCQ_MissingAnswerIndex(t *testing.T) {
	c := decode(t, `{"type": "MCQ", "question": "q", "options": ["a", "b"]}`)
	p := c.Payload.(MCQ)
	if p.AnswerIndex != -1 {
		t.Errorf("AnswerIndex = %d, want -1 for a missing field", p.AnswerIndex)
	}
	if Evaluate(c, IndexSubmission(0)) || Evaluate(c, IndexSubmission(-1)) {
		t.Error("card without answer_index must never score correct")
	}
}

func TestDecodeShortWithRubric(t *testing.T) {
	c := decode(t, `{
		"type": "SHORT",
		"prompt": "p",
		"answer": "Hangul",
		"rubric": {"aliases": ["Hangeul"]}
	}`)
	p := c.Payload.(Short)
	if p.Answer != "Hangul" || !slices.Equal(p.Aliases, []string{"Hangeul"}) {
		t.Errorf("unexpected payload %+v", p)
	}
	if !Evaluate(c, TextSubmission("hangeul")) {
		t.Error("alias should match after normalization")
	}
}

func TestDecodeShortWithoutRubric(t *testing.T) {
	c := decode(t, `{"type": "SHORT", "prompt": "p", "answer": "x"}`)
	if aliases := c.Payload.(Short).Aliases; len(aliases) != 0 {
		t.Errorf("Aliases = %v, want empty", aliases)
	}
}

func TestDecodeOX(t *testing.T) {
	c := decode(t, `{"type": "OX", "statement": "s", "answer": true}`)
	if p := c.Payload.(OX); !p.Answer {
		t.Error("Answer = false, want true")
	}
}

func TestDecodeCloze(t *testing.T) {
	c := decode(t, `{
		"type": "CLOZE",
		"text": "{{k}} was built",
		"clozes": {"k": "Bulguksa"}
	}`)
	if !Evaluate(c, ClozeSubmission{"k": "Bulguksa"}) {
		t.Error("decoded cloze should accept its fills")
	}
}

func TestDecodeOrder(t *testing.T) {
	c := decode(t, `{
		"type": "ORDER",
		"items": ["b", "a"],
		"answer_order": [1, 0]
	}`)
	if !Evaluate(c, OrderSubmission{1, 0}) {
		t.Error("decoded order should accept its permutation")
	}
}

func TestDecodeMatch(t *testing.T) {
	c := decode(t, `{
		"type": "MATCH",
		"left": ["a", "b"],
		"right": ["x", "y"],
		"pairs": [[0, 1], [1, 0]]
	}`)
	p := c.Payload.(Match)
	if len(p.Pairs) != 2 || p.Pairs[0] != [2]int{0, 1} {
		t.Errorf("unexpected pairs %v", p.Pairs)
	}
	if !Evaluate(c, MatchSubmission{1, 0}) {
		t.Error("decoded match should accept its mapping")
	}
}

func TestDecodeStringID(t *testing.T) {
	c := decode(t, `{"id": "preview-1", "type": "OX", "statement": "s", "answer": false}`)
	if c.ID != "preview-1" {
		t.Errorf("ID = %q, want preview-1", c.ID)
	}
}

func TestDecodeUnknownType(t *testing.T) {
	var c Card
	if err := json.Unmarshal([]byte(`{"type": "ESSAY"}`), &c); err == nil {
		t.Error("expected an error for an unknown card type")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	cards := []string{
		`{"id": "1", "type": "MCQ", "question": "q", "options": ["a", "b"], "answer_index": 1}`,
		`{"type": "SHORT", "prompt": "p", "answer": "x", "rubric": {"aliases": ["y"]}}`,
		`{"type": "OX", "statement": "s", "answer": true}`,
		`{"type": "CLOZE", "text": "{{k}}", "clozes": {"k": "v"}}`,
		`{"type": "ORDER", "items": ["a", "b"], "answer_order": [1, 0]}`,
		`{"type": "MATCH", "left": ["l"], "right": ["r"], "pairs": [[0, 0]]}`,
	}
	for _, raw := range cards {
		first := decode(t, raw)
		out, err := json.Marshal(first)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		second := decode(t, string(out))
		if first.Type != second.Type || first.ID != second.ID {
			t.Errorf("envelope changed across round trip: %+v vs %+v", first, second)
		}
		if got, want := second.Payload, first.Payload; !payloadEqual(got, want) {
			t.Errorf("payload changed across round trip: %+v vs %+v", got, want)
		}
	}
}

func payloadEqual(a, b Payload) bool {
	aj, err := json.Marshal(Card{Type: a.cardType(), Payload: a})
	if err != nil {
		return false
	}
	bj, err := json.Marshal(Card{Type: b.cardType(), Payload: b})
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}
