package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/syndicate-prices/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "syndicate-prices",
	Short: "Cheapest market prices for syndicate offerings",
	Long:  "Scrapes a syndicate's offerings from the Warframe wiki, looks up current sell orders on warframe.market, caches them briefly and lists items from cheapest to most expensive.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return err
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
