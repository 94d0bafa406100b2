// Package card defines the six quiz card variants and their answer
// evaluation rules.
package card

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Type discriminates the six card variants.
type Type string

const (
	TypeMCQ   Type = "MCQ"   // single choice from 2-6 options
	TypeShort Type = "SHORT" // free-text answer with optional aliases
	TypeOX    Type = "OX"    // true/false statement
	TypeCloze Type = "CLOZE" // fill-in-the-blank text with {{key}} placeholders
	TypeOrder Type = "ORDER" // arrange items into the correct sequence
	TypeMatch Type = "MATCH" // pair left entries with right entries
)

// Card is one immutable quiz item: a common envelope plus a type-specific
// payload. Explain is shown after answering; Tags are display-only.
type Card struct {
	ID      string
	Type    Type
	Explain string
	Tags    []string
	Payload Payload
}

// Payload is the sealed set of per-type card bodies. Exactly one concrete
// type exists per Type value.
type Payload interface {
	cardType() Type
}

// MCQ asks the learner to pick one of Options. AnswerIndex is -1 when the
// deck omitted it, which no submission can match.
type MCQ struct {
	Question    string
	Options     []string
	AnswerIndex int
}

// Short asks for a typed answer. Aliases are acceptable alternates.
type Short struct {
	Prompt  string
	Answer  string
	Aliases []string
}

// OX asks whether Statement is true.
type OX struct {
	Statement string
	Answer    bool
}

// Cloze presents Text with {{key}} placeholders; Clozes maps each key to
// its expected fill.
type Cloze struct {
	Text   string
	Clozes map[string]string
}

// Order asks the learner to arrange Items; AnswerOrder is the correct
// permutation of item indices.
type Order struct {
	Items       []string
	AnswerOrder []int
}

// Match asks the learner to pair Left entries with Right entries. Pairs
// holds the correct (leftIndex, rightIndex) correspondences.
type Match struct {
	Left  []string
	Right []string
	Pairs [][2]int
}

func (MCQ) cardType() Type   { return TypeMCQ }
func (Short) cardType() Type { return TypeShort }
func (OX) cardType() Type    { return TypeOX }
func (Cloze) cardType() Type { return TypeCloze }
func (Order) cardType() Type { return TypeOrder }
func (Match) cardType() Type { return TypeMatch }

// wireCard is the flat serialized form shared by all variants. Absent
// fields keep their zero value; AnswerIndex uses a pointer so a missing
// index decodes to -1 rather than option 0.
type wireCard struct {
	ID          json.RawMessage   `json:"id,omitempty"`
	Type        Type              `json:"type"`
	Explain     string            `json:"explain,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Question    string            `json:"question,omitempty"`
	Options     []string          `json:"options,omitempty"`
	AnswerIndex *int              `json:"answer_index,omitempty"`
	Prompt      string            `json:"prompt,omitempty"`
	Answer      json.RawMessage   `json:"answer,omitempty"`
	Rubric      *wireRubric       `json:"rubric,omitempty"`
	Statement   string            `json:"statement,omitempty"`
	Text        string            `json:"text,omitempty"`
	Clozes      map[string]string `json:"clozes,omitempty"`
	Items       []string          `json:"items,omitempty"`
	AnswerOrder []int             `json:"answer_order,omitempty"`
	Left        []string          `json:"left,omitempty"`
	Right       []string          `json:"right,omitempty"`
	Pairs       [][]int           `json:"pairs,omitempty"`
}

type wireRubric struct {
	Aliases []string `json:"aliases,omitempty"`
}

// UnmarshalJSON decodes the flat wire form into the tagged representation.
// Missing type-specific fields default to values that evaluate as incorrect
// rather than failing the decode.
func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode card: %w", err)
	}

	c.ID = decodeID(w.ID)
	c.Type = w.Type
	c.Explain = w.Explain
	c.Tags = w.Tags

	switch w.Type {
	case TypeMCQ:
		idx := -1
		if w.AnswerIndex != nil {
			idx = *w.AnswerIndex
		}
		c.Payload = MCQ{Question: w.Question, Options: w.Options, AnswerIndex: idx}
	case TypeShort:
		var answer string
		if len(w.Answer) > 0 {
			if err := json.Unmarshal(w.Answer, &answer); err != nil {
				return fmt.Errorf("decode card: short answer: %w", err)
			}
		}
		var aliases []string
		if w.Rubric != nil {
			aliases = w.Rubric.Aliases
		}
		c.Payload = Short{Prompt: w.Prompt, Answer: answer, Aliases: aliases}
	case TypeOX:
		var answer bool
		if len(w.Answer) > 0 {
			if err := json.Unmarshal(w.Answer, &answer); err != nil {
				return fmt.Errorf("decode card: ox answer: %w", err)
			}
		}
		c.Payload = OX{Statement: w.Statement, Answer: answer}
	case TypeCloze:
		c.Payload = Cloze{Text: w.Text, Clozes: w.Clozes}
	case TypeOrder:
		c.Payload = Order{Items: w.Items, AnswerOrder: w.AnswerOrder}
	case TypeMatch:
		pairs := make([][2]int, 0, len(w.Pairs))
		for _, p := range w.Pairs {
			if len(p) >= 2 {
				pairs = append(pairs, [2]int{p[0], p[1]})
			}
		}
		c.Payload = Match{Left: w.Left, Right: w.Right, Pairs: pairs}
	default:
		return fmt.Errorf("decode card: unknown type %q", w.Type)
	}

	return nil
}

// MarshalJSON emits the flat wire form.
func (c Card) MarshalJSON() ([]byte, error) {
	w := wireCard{
		Type:    c.Type,
		Explain: c.Explain,
		Tags:    c.Tags,
	}
	if c.ID != "" {
		w.ID = json.RawMessage(strconv.Quote(c.ID))
	}

	switch p := c.Payload.(type) {
	case MCQ:
		idx := p.AnswerIndex
		w.Question = p.Question
		w.Options = p.Options
		w.AnswerIndex = &idx
	case Short:
		w.Prompt = p.Prompt
		answer, err := json.Marshal(p.Answer)
		if err != nil {
			return nil, err
		}
		w.Answer = answer
		if len(p.Aliases) > 0 {
			w.Rubric = &wireRubric{Aliases: p.Aliases}
		}
	case OX:
		w.Statement = p.Statement
		answer, err := json.Marshal(p.Answer)
		if err != nil {
			return nil, err
		}
		w.Answer = answer
	case Cloze:
		w.Text = p.Text
		w.Clozes = p.Clozes
	case Order:
		w.Items = p.Items
		w.AnswerOrder = p.AnswerOrder
	case Match:
		w.Left = p.Left
		w.Right = p.Right
		w.Pairs = make([][]int, 0, len(p.Pairs))
		for _, pr := range p.Pairs {
			w.Pairs = append(w.Pairs, []int{pr[0], pr[1]})
		}
	default:
		return nil, fmt.Errorf("encode card: missing payload for type %q", c.Type)
	}

	return json.Marshal(w)
}

// decodeID accepts both string and numeric identifiers; the backend assigns
// integer ids while locally authored decks may use strings.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatInt(n, 10)
	}
	return ""
}

// Prompt returns the learner-facing question text for any variant.
func (c Card) Prompt() string {
	switch p := c.Payload.(type) {
	case MCQ:
		return p.Question
	case Short:
		return p.Prompt
	case OX:
		return p.Statement
	case Cloze:
		return p.Text
	case Order:
		return "Arrange in the correct order"
	case Match:
		return "Match each entry on the left"
	}
	return ""
}
