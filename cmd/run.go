package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/dpt/internal/app"
	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/session"
)

// runApp builds the session and launches the TUI. The provider is bound
// up front only when a key was given on the command line or the mock
// provider was chosen; otherwise the connect screen asks for one.
func runApp(cmd *cobra.Command) error {
	closeLog, err := setupTUILogging(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	e, err := newEnv(cmd, exercise.DefaultReviewConfig())
	if err != nil {
		return err
	}
	defer e.Close()

	if e.apiKey != "" || e.cfg.Provider == llm.KindMock {
		if _, err := e.tutor.Bind(cmd.Context(), e.state, e.cfg.Provider, e.apiKey); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), session.Describe(err))
		}
	}

	return app.Run(app.Options{
		Tutor:  e.tutor,
		State:  e.state,
		Events: e.events,
	})
}

// setupTUILogging points slog at --log-file or DPT_LOG_FILE. Without
// either, logs are discarded since stderr belongs to the terminal UI.
func setupTUILogging(cmd *cobra.Command) (func(), error) {
	path, _ := cmd.Flags().GetString("log-file")
	if path == "" {
		path = os.Getenv("DPT_LOG_FILE")
	}
	if path == "" {
		slog.SetDefault(slog.New(slog.DiscardHandler))
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	return func() { f.Close() }, nil
}
