package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/restaurant/services/menu/internal/events"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print menu item events as they are published",
	Long: `Watch follows menuitem.added, menuitem.updated and menuitem.deleted
events on the restaurant exchange and prints each one as a JSON line until
interrupted. Requires RABBITMQ_URL.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.RabbitMQURL == "" {
			return errors.New("RABBITMQ_URL is not set")
		}

		consumer, err := events.NewConsumer(cfg.RabbitMQURL, cfg.ServiceName+"-ctl-watch", log)
		if err != nil {
			return err
		}
		defer consumer.Close()

		ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		return consumer.Consume(ctx, func(e events.Event) error {
			line, err := json.Marshal(e)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(line))
			return err
		})
	},
}
