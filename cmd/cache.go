package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/syndicate-prices/internal/pricing"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local price cache",
}

// -- cache show --

var cacheShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print cached prices without fetching",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		report, err := pricing.CachedReport(ctx, st)
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout())
	},
}

// -- cache clear --

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached prices",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Remove(ctx); err != nil {
			return err
		}
		zap.L().Info("price cache cleared", zap.String("store", st.Name()))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		return err
	},
}

func init() {
	cacheCmd.AddCommand(cacheShowCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
