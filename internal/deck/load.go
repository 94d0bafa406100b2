package deck

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads, validates, and decodes a deck file.
func Load(path string) (*Deck, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return Parse(raw)
}

// Parse validates and decodes raw deck JSON.
func Parse(raw []byte) (*Deck, error) {
	if err := Validate(raw); err != nil {
		return nil, err
	}
	var d Deck
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode deck: %w", err)
	}
	return &d, nil
}
