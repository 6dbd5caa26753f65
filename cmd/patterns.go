package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/dpt/internal/catalog"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the design patterns, difficulties and topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		fmt.Fprintf(out, "%-10s  %s\n", "Pattern", "Description")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, p := range catalog.AllPatterns() {
			desc := p.Description
			if len(desc) > 66 {
				desc = desc[:63] + "..."
			}
			fmt.Fprintf(out, "%-10s  %s\n", p.Name, desc)
			fmt.Fprintf(out, "%-10s  %s\n", "", p.URL)
		}

		difficulties := make([]string, 0, len(catalog.AllDifficulties()))
		for _, d := range catalog.AllDifficulties() {
			difficulties = append(difficulties, string(d))
		}
		topics := make([]string, 0, len(catalog.AllTopics()))
		for _, t := range catalog.AllTopics() {
			topics = append(topics, string(t))
		}

		fmt.Fprintf(out, "\nDifficulties: %s\n", strings.Join(difficulties, ", "))
		fmt.Fprintf(out, "Topics:       %s\n", strings.Join(topics, ", "))
		return nil
	},
}
