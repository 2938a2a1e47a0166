package main

import (
	"github.com/spf13/cobra"

	"github.com/thuong-9/pydoan/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "roboenglish",
	Short:         "English practice backend for young learners",
	Long:          "Robo English serves the curriculum, grades answers, runs the chat tutor and keeps the learning history.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
	rootCmd.PersistentFlags().String("history-file", "", "Learning history JSON file (overrides ROBO_HISTORY_FILE)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(curriculumCmd)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) config.Config {
	cfg := config.FromEnv()
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.HTTPAddr = v
	}
	if v, _ := cmd.Flags().GetString("history-file"); v != "" {
		cfg.HistoryFile = v
	}
	return cfg
}
