package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dpt",
	Short: "Design pattern trainer",
	Long: `dpt generates Python design pattern exercises with an LLM of your choice
and reviews your solutions. Run without a subcommand to open the terminal UI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("provider", "", "LLM provider: anthropic, openai, gemini, openrouter or mock (overrides DPT_LLM_PROVIDER)")
	flags.String("api-key", "", "API key for the provider (overrides the provider's environment variable)")
	flags.String("model", "", "Model name for the provider (overrides DPT_<PROVIDER>_MODEL)")
	flags.String("log-file", "", "Write TUI debug logs to this file (overrides DPT_LOG_FILE)")

	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(versionCmd)
}
