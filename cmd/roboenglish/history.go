package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thuong-9/pydoan/internal/history"
	"github.com/thuong-9/pydoan/internal/logger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print recent learning history records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		hstore, closeHistory, err := openHistory(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeHistory()

		recs, err := history.NewLedger(hstore, logger.Nop()).Recent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(recs)
		}
		for _, r := range recs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-14s %-9s %3d  %s\n", r.Timestamp, r.Mode, r.Result, r.Score, r.Question)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of records to print (0 for all)")
	historyCmd.Flags().Bool("json", false, "Print records as JSON")
}
