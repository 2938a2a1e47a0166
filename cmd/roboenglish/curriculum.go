package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thuong-9/pydoan/internal/curriculum"
)

var curriculumCmd = &cobra.Command{
	Use:   "curriculum",
	Short: "Inspect the built-in curriculum",
}

var curriculumValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the embedded curriculum and print its size",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := curriculum.Load()
		if err != nil {
			return err
		}
		grades, topics, items := store.Counts()
		fmt.Fprintf(cmd.OutOrStdout(), "curriculum ok: %d grades, %d topics, %d items\n", grades, topics, items)
		for _, g := range store.Catalog() {
			fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %-8s %d topics\n", g.ID, g.Title, len(g.Topics))
		}
		return nil
	},
}

func init() {
	curriculumCmd.AddCommand(curriculumValidateCmd)
}
