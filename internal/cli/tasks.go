package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/loader"
)

var (
	tasksTemplate bool
	tasksJSON     bool
)

func init() {
	tasksCmd.Flags().BoolVar(&tasksTemplate, "template", false, "Treat the id as an opportunity template and list its template tasks")
	tasksCmd.Flags().BoolVar(&tasksJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(tasksCmd)
}

var tasksCmd = &cobra.Command{
	Use:   "tasks <opportunity-id>",
	Short: "List the tasks of an opportunity",
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

		resource := api.ResourceTasks
		call := func(ctx context.Context) (*api.Response, error) {
			return a.client.Tasks.ByOpportunity(ctx, id)
		}
		if tasksTemplate {
			resource = api.ResourceTemplateTasks
			call = func(ctx context.Context) (*api.Response, error) {
				return a.client.TemplateTasks.ByTemplate(ctx, id)
			}
		}

		items, err := loader.NewList(loader.SliceFetcher[record](call), logger).Load(ctx)
		if err != nil {
			return fmt.Errorf("listing tasks of %d: %w", id, err)
		}

		out := cmd.OutOrStdout()
		if a.jsonOutput(tasksJSON) {
			return printJSON(out, items)
		}
		if len(items) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		return printRecords(out, resource, items, a.language(""))
	},
}
