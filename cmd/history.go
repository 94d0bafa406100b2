package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daehan/histudy/internal/app"
	historyscreen "github.com/daehan/histudy/internal/screens/history"
	"github.com/daehan/histudy/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past study sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		return app.Run(historyscreen.New(st.Sessions()))
	},
}
