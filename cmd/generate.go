package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/dpt/internal/catalog"
	"github.com/abhisek/dpt/internal/exercise"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a coding exercise and print it",
	Long: `Generate a Python exercise for one pattern, difficulty and topic.

Nothing is kept after the command exits. Save the output to a file and pass
it to "dpt check --problem" to have a solution reviewed against it.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("pattern", catalog.PatternNames()[0], "Design pattern (see dpt patterns)")
	generateCmd.Flags().String("difficulty", string(catalog.AllDifficulties()[0]), "Difficulty level")
	generateCmd.Flags().String("topic", string(catalog.AllTopics()[0]), "Problem topic")
	addReportFlags(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	patternVal, _ := cmd.Flags().GetString("pattern")
	difficultyVal, _ := cmd.Flags().GetString("difficulty")
	topicVal, _ := cmd.Flags().GetString("topic")

	difficulty, err := catalog.ParseDifficulty(difficultyVal)
	if err != nil {
		return err
	}
	topic, err := catalog.ParseTopic(topicVal)
	if err != nil {
		return err
	}
	req := exercise.Request{Pattern: patternVal, Difficulty: difficulty, Topic: topic}
	if err := req.Validate(); err != nil {
		return err
	}

	e, err := newEnv(cmd, exercise.DefaultReviewConfig())
	if err != nil {
		return err
	}
	defer e.Close()

	if _, err := e.bind(cmd); err != nil {
		return err
	}

	ex, err := e.tutor.Generate(cmd.Context(), e.state, req)
	if err != nil {
		return userError{err}
	}
	fmt.Fprintln(cmd.OutOrStdout(), ex.Text)

	return e.report(cmd)
}
