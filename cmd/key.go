package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/dpt/internal/exercise"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage provider credentials",
}

var keyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configured API key with a minimal request",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv(cmd, exercise.DefaultReviewConfig())
		if err != nil {
			return err
		}
		defer e.Close()

		if _, err := e.bind(cmd); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", e.state.Status())
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyCheckCmd)
}
