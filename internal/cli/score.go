package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/document"
	"github.com/presalesly/presalesly/internal/model"
)

var (
	scoreFile       string
	scoreAlgorithm  string
	scoreSetDefault bool
	scoreScoring    string
	scoreIterations int
)

func init() {
	for _, c := range []*cobra.Command{scoreTrainCmd, scoreSearchCmd} {
		c.Flags().StringVarP(&scoreFile, "file", "f", "", "YAML or JSON parameters (- for stdin); server defaults when unset")
		c.Flags().StringVar(&scoreAlgorithm, "algorithm", "", "catboost or lightgbm")
		c.Flags().BoolVar(&scoreSetDefault, "set-default", true, "Make the resulting model the default")
	}
	scoreSearchCmd.Flags().StringVar(&scoreScoring, "scoring", "", "accuracy, f1, precision or recall")
	scoreSearchCmd.Flags().IntVar(&scoreIterations, "iterations", 0, "Number of sampled parameter sets")

	scoreCmd.AddCommand(scoreTrainCmd)
	scoreCmd.AddCommand(scoreSearchCmd)
	scoreCmd.AddCommand(scoreUpdateCmd)
	rootCmd.AddCommand(scoreCmd)
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Train and apply the opportunity scoring model",
}

var scoreTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the scoring model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var params model.TrainParams
		if err := loadScoreParams(cmd, &params); err != nil {
			return err
		}
		opts := api.TrainOptions{Algorithm: model.Algorithm(scoreAlgorithm)}
		if cmd.Flags().Changed("set-default") {
			opts.SetAsDefault = &scoreSetDefault
		}

		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}
		resp, err := a.client.OppScore.Train(ctx, opts, params)
		if err != nil {
			return fmt.Errorf("training model: %w", err)
		}
		res, err := api.DecodeJSON[model.TrainResult](resp)
		if err != nil {
			return err
		}

		p := printer(a.language(""))
		out := cmd.OutOrStdout()
		p.Fprintf(out, "accuracy   %.4f\n", res.Accuracy)
		p.Fprintf(out, "f1         %.4f\n", res.F1)
		p.Fprintf(out, "precision  %.4f\n", res.Precision)
		p.Fprintf(out, "recall     %.4f\n", res.Recall)
		return nil
	},
}

var scoreSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search hyperparameters for the scoring model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var dist model.ParamDist
		if err := loadScoreParams(cmd, &dist); err != nil {
			return err
		}
		opts := api.SearchOptions{
			Algorithm:  model.Algorithm(scoreAlgorithm),
			Scoring:    model.Scoring(scoreScoring),
			Iterations: scoreIterations,
		}
		if cmd.Flags().Changed("set-default") {
			opts.SetBestAsDefault = &scoreSetDefault
		}

		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}
		resp, err := a.client.OppScore.Search(ctx, opts, dist)
		if err != nil {
			return fmt.Errorf("searching parameters: %w", err)
		}
		res, err := api.DecodeJSON[model.SearchResult](resp)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printer(a.language("")).Fprintf(out, "best score  %.4f\n", res.BestScore)
		return printJSON(out, res.BestParams)
	},
}

var scoreUpdateCmd = &cobra.Command{
	Use:   "update <opportunity-id>",
	Short: "Recompute the AI score of an opportunity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}
		resp, err := a.client.Opportunities.UpdateScore(ctx, id)
		if err != nil {
			return fmt.Errorf("rescoring opportunity %d: %w", id, err)
		}
		opp, err := api.DecodeJSON[model.OpportunityDetails](resp)
		if err != nil {
			return err
		}
		score := "-"
		if opp.AIScore != nil {
			score = fmt.Sprint(*opp.AIScore)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: AI score %s\n", opp.Name, score)
		return nil
	},
}

// loadScoreParams validates the --file document and decodes it into dst.
// Without a file dst keeps its zero value.
func loadScoreParams(cmd *cobra.Command, dst interface{}) error {
	if scoreFile == "" {
		return nil
	}
	doc, err := document.LoadFile(scoreFile, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if err := document.Check(doc, document.KindScoreParams, document.Create); err != nil {
		return err
	}
	if err := doc.Node.Decode(dst); err != nil {
		return fmt.Errorf("decoding %s: %w", doc.Source, err)
	}
	return nil
}
