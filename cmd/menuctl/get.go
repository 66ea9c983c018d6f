package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Print one menu item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ctx, cancel := storeContext(cmd)
		defer cancel()

		item, found, err := accessor.GetItemByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get item: %w", err)
		}
		if !found {
			return fmt.Errorf("item %d does not exist", id)
		}

		output, err := json.MarshalIndent(item, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(output))
		return nil
	},
}
