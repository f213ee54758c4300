package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/model"
)

var (
	answersLang string
	answersJSON bool
)

func init() {
	answersRecommendCmd.Flags().StringVar(&answersLang, "lang", "", "Language of the question")
	answersRecommendCmd.Flags().BoolVar(&answersJSON, "json", false, "Output in JSON format")
	answersCmd.AddCommand(answersRecommendCmd)
	rootCmd.AddCommand(answersCmd)
}

var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Work with the answers library",
}

var answersRecommendCmd = &cobra.Command{
	Use:   "recommend <question>",
	Short: "Find library answers similar to a question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}

		q := model.Question{
			Query:        strings.Join(args, " "),
			LanguageCode: a.language(answersLang),
		}
		resp, err := a.client.Answers.Recommend(ctx, q)
		if err != nil {
			return fmt.Errorf("recommending answers: %w", err)
		}
		recs, err := api.DecodeJSON[[]model.AnswerRecommendation](resp)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if a.jsonOutput(answersJSON) {
			return printJSON(out, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No matching answers.")
			return nil
		}
		for i, r := range recs {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "#%d  score %s  (answer %d)\n", i+1, formatValue(r.Score), r.Answer.ID)
			fmt.Fprintf(out, "Q: %s\n", r.Answer.Question)
			fmt.Fprintf(out, "A: %s\n", r.Answer.Answer)
		}
		return nil
	},
}
