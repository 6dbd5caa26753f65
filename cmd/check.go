package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/dpt/internal/catalog"
	"github.com/abhisek/dpt/internal/exercise"
	"github.com/abhisek/dpt/internal/syntaxgate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Review a Python solution against a problem",
	Long: `Check that a solution parses as Python and, if it does, have the
provider review it against the problem statement.

A syntax error is reported without contacting the provider. Pass "-" as
the --code file to read the solution from stdin.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("pattern", "", "Design pattern the solution should use (required)")
	checkCmd.Flags().String("problem", "", "File holding the problem statement (required)")
	checkCmd.Flags().String("code", "", "File holding the Python solution, or - for stdin (required)")
	checkCmd.Flags().Bool("structured", false, "Ask for a JSON review validated against a schema")
	addReportFlags(checkCmd)
	_ = checkCmd.MarkFlagRequired("pattern")
	_ = checkCmd.MarkFlagRequired("problem")
	_ = checkCmd.MarkFlagRequired("code")
}

func runCheck(cmd *cobra.Command, args []string) error {
	patternVal, _ := cmd.Flags().GetString("pattern")
	problemPath, _ := cmd.Flags().GetString("problem")
	codePath, _ := cmd.Flags().GetString("code")
	structured, _ := cmd.Flags().GetBool("structured")

	if _, ok := catalog.LookupPattern(patternVal); !ok {
		return fmt.Errorf("unknown pattern %q", patternVal)
	}

	problem, err := os.ReadFile(problemPath)
	if err != nil {
		return fmt.Errorf("read problem: %w", err)
	}
	code, err := readSource(cmd, codePath)
	if err != nil {
		return fmt.Errorf("read code: %w", err)
	}

	// Gate before binding so a syntax error never needs a key.
	if err := syntaxgate.New().Check(cmd.Context(), code); err != nil {
		return userError{err}
	}

	cfg := exercise.DefaultReviewConfig()
	cfg.Structured = structured
	e, err := newEnv(cmd, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.bind(cmd); err != nil {
		return err
	}

	e.state.SetExercise(exercise.FromText(exercise.Request{Pattern: patternVal}, string(problem), ""))
	review, err := e.tutor.Submit(cmd.Context(), e.state, code)
	if err != nil {
		return userError{err}
	}
	writeReview(cmd.OutOrStdout(), review)

	return e.report(cmd)
}

func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func writeReview(w io.Writer, r *exercise.Review) {
	if !r.Scored {
		fmt.Fprintln(w, r.Raw)
		return
	}
	fmt.Fprintf(w, "Score: %d/%d\n", r.Score, exercise.MaxScore)
	if r.Suggestions != "" {
		fmt.Fprintf(w, "\nSuggestions:\n%s\n", r.Suggestions)
	}
}
