package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sells-group/syndicate-prices/internal/wiki"
)

var syndicatesCmd = &cobra.Command{
	Use:   "syndicates",
	Short: "List the syndicates that can be checked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		out := cmd.OutOrStdout()
		for _, s := range wiki.Syndicates {
			if _, err := fmt.Fprintf(out, "%-20s %s\n", s, s.DisplayName()); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syndicatesCmd)
}
