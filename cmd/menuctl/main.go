// Package main provides menuctl, the operator CLI for the menu store.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/restaurant/services/menu/internal/bootstrap"
	"github.com/restaurant/services/menu/internal/config"
	"github.com/restaurant/services/menu/internal/repo"
	"github.com/restaurant/services/menu/internal/store"
	"github.com/restaurant/services/menu/pkg/logger"
)

var (
	// storeDriver overrides STORE_DRIVER when set by --driver.
	storeDriver string

	cfg       *config.Config
	log       *zap.Logger
	menuStore store.Store
	accessor  *repo.MenuItemAccessor
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "menuctl",
	Short: "menuctl manages the restaurant menu store",
	Long: `menuctl connects to the store configured for the menu service
(STORE_DRIVER and friends, .env and CONFIG_FILE are honoured) and
rebuilds or inspects its contents.`,
	SilenceUsage:      true,
	PersistentPreRunE: openStore,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storeDriver, "driver", "", "store driver: mongo, postgres or sqlite (default: $STORE_DRIVER)")

	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(watchCmd)

	// Finalizers run whether or not the command failed, unlike post-run hooks.
	cobra.OnFinalize(func() {
		if err := closeStore(context.Background()); err != nil && log != nil {
			log.Warn("Failed to close store", zap.Error(err))
		}
	})
}

// openStore loads config and connects the accessor used by the store
// commands.
func openStore(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if storeDriver != "" {
		cfg.StoreDriver = storeDriver
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log = logger.NewLogger(cfg.ServiceName+"-ctl", "warn")

	// watch only talks to the broker.
	if cmd == watchCmd {
		return nil
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), cfg.StoreTimeout)
	defer cancel()

	menuStore, err = bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	accessor = repo.NewMenuItemAccessor(menuStore)
	return nil
}

// closeStore releases the store and flushes the logger.
func closeStore(ctx context.Context) error {
	if log != nil {
		defer log.Sync()
	}
	if menuStore == nil {
		return nil
	}
	err := menuStore.Close(orBackground(ctx))
	menuStore = nil
	accessor = nil
	return err
}

// storeContext bounds a single command's storage work.
func storeContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(commandContext(cmd), cfg.StoreTimeout)
}

func commandContext(cmd *cobra.Command) context.Context {
	return orBackground(cmd.Context())
}

func orBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
