package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/llm"
	"github.com/abhisek/dpt/internal/session"
	"github.com/abhisek/dpt/internal/store"
	"github.com/abhisek/dpt/internal/usage"
)

// env is the per-invocation session: an in-memory event log, a tutor and
// its state.
type env struct {
	cfg    llm.Config
	apiKey string

	store  *store.Store
	events store.EventRepo
	tutor  *session.Tutor
	state  *session.State
}

// loadConfig reads provider configuration from the environment and
// applies the --provider and --model flags.
func loadConfig(cmd *cobra.Command) (llm.Config, error) {
	cfg, err := llm.ConfigFromEnv()
	if err != nil {
		return llm.Config{}, err
	}

	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.Provider = llm.Kind(p)
	}
	kind, err := llm.ParseKind(string(cfg.Provider))
	if err != nil {
		return llm.Config{}, err
	}
	cfg.Provider = kind

	model, _ := cmd.Flags().GetString("model")
	return cfg.WithModel(model), nil
}

func newEnv(cmd *cobra.Command, review exercise.ReviewConfig) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := store.Open()
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	events := s.EventRepo()
	apiKey, _ := cmd.Flags().GetString("api-key")
	return &env{
		cfg:    cfg,
		apiKey: apiKey,
		store:  s,
		events: events,
		tutor:  session.NewTutor(llm.NewFactory(events), cfg, session.WithEvents(events), session.WithReviewConfig(review)),
		state:  session.NewState(),
	}, nil
}

func (e *env) Close() error {
	return e.store.Close()
}

// bind connects the configured provider, trying --api-key before the
// provider's environment variable.
func (e *env) bind(cmd *cobra.Command) (llm.CredentialResult, error) {
	res, err := e.tutor.Bind(cmd.Context(), e.state, e.cfg.Provider, e.apiKey)
	if err != nil {
		return res, userError{err}
	}
	return res, nil
}

// report writes what was sent to the provider during this run: the usage
// tables with --usage, every request and response with --trace.
func (e *env) report(cmd *cobra.Command) error {
	showUsage, _ := cmd.Flags().GetBool("usage")
	trace, _ := cmd.Flags().GetBool("trace")
	if !showUsage && !trace {
		return nil
	}

	ctx := cmd.Context()
	events, err := e.events.QueryLLMEvents(ctx, store.QueryOpts{})
	if err != nil {
		return fmt.Errorf("query events: %w", err)
	}
	out := cmd.ErrOrStderr()

	if trace {
		// Oldest first.
		for i := len(events) - 1; i >= 0; i-- {
			fmt.Fprintln(out)
			usage.WriteEvent(out, &events[i])
		}
	}
	if showUsage {
		r, err := usage.Build(ctx, e.events)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		usage.WriteReport(out, r)
		fmt.Fprintln(out)
		usage.WriteEvents(out, events)
	}
	return nil
}

// addReportFlags registers the flags read by env.report.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("usage", false, "Print LLM usage for this run to stderr")
	cmd.Flags().Bool("trace", false, "Print every LLM request and response to stderr")
}

// userError presents a session error the way the TUI would.
type userError struct{ err error }

func (e userError) Error() string { return session.Describe(e.err) }
func (e userError) Unwrap() error { return e.err }
