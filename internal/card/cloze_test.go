package card

import (
	"slices"
	"testing"
)

func TestPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "plain text", nil},
		{"single", "the {{x}} rises", []string{"x"}},
		{"multiple", "{{a}} then {{b}}", []string{"a", "b"}},
		{"duplicate deduped", "{{a}} and {{a}} again", []string{"a"}},
		{"order of first appearance", "{{b}} {{a}} {{b}}", []string{"b", "a"}},
		{"empty key skipped", "odd {{}} token {{k}}", []string{"k"}},
		{"unterminated tail ignored", "{{a}} and {{broken", []string{"a"}},
		{"adjacent", "{{a}}{{b}}", []string{"a", "b"}},
		{"multiword key", "{{the year}}", []string{"the year"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Placeholders(tt.text)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Placeholders(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
