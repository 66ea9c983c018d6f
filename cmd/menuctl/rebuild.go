package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/restaurant/services/menu/internal/seed"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Drop the menu and restore the seed items",
	Long: `Rebuild drops every stored menu item and inserts the restaurant's
starting menu in its place. Existing edits are lost.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := storeContext(cmd)
		defer cancel()

		items := seed.Items()
		if err := accessor.Rebuild(ctx, items); err != nil {
			return fmt.Errorf("rebuild: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt menu with %d items\n", len(items))
		return nil
	},
}
