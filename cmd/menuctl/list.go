package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCSV bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print every menu item",
	Long: `List prints every stored menu item ascending by id, one per line.

Example:
  menuctl list
  menuctl list --csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := storeContext(cmd)
		defer cancel()

		items, err := accessor.GetAllItems(ctx)
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, item := range items {
			if listCSV {
				fmt.Fprintln(out, item.CSV())
			} else {
				fmt.Fprintln(out, item.Format())
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listCSV, "csv", false, "print comma separated values")
}
