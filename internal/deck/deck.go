// Package deck loads and validates quiz deck files: a titled, ordered list
// of cards in the flat JSON form the card package decodes.
package deck

import (
	"sort"

	"github.com/daehan/histudy/internal/card"
)

// Deck is one loadable set of quiz cards.
type Deck struct {
	Title string      `json:"title"`
	Cards []card.Card `json:"cards"`
}

// Tags collects the distinct tags across all cards, sorted.
func (d *Deck) Tags() []string {
	seen := make(map[string]bool)
	for _, c := range d.Cards {
		for _, t := range c.Tags {
			seen[t] = true
		}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
