package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daehan/histudy/internal/deck"
)

var validateCmd = &cobra.Command{
	Use:   "validate <deck.json>...",
	Short: "Validate deck files against the deck schema",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var failed bool
		for _, path := range args {
			d, err := deck.Load(path)
			if err != nil {
				failed = true
				fmt.Printf("✗ %s: %v\n", path, err)
				continue
			}
			fmt.Printf("✓ %s: %q, %d cards\n", path, d.Title, len(d.Cards))
		}
		if failed {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}
