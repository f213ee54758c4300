package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
)

func init() {
	rootCmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:   "delete <resource> <id>...",
	Short: "Delete one or more records",
	Long: `Delete records by id. Industries, stages and templates are deleted
concurrently; other resources one at a time, stopping at the first failure.`,
	Args:      cobra.MinimumNArgs(2),
	ValidArgs: api.CRUDResources,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		ids, err := parseIDs(args[1:])
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if bulk := bulkResource(a.client, name); bulk != nil {
			if err := bulk.DeleteAll(ctx, ids); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d %s\n", len(ids), name)
			return nil
		}

		res, err := a.client.Resource(name)
		if err != nil {
			return err
		}
		for _, id := range ids {
			resp, err := res.Delete(ctx, id)
			if err != nil {
				return fmt.Errorf("deleting %s %d: %w", name, id, err)
			}
			if err := printMessage(out, resp); err != nil {
				return err
			}
		}
		return nil
	},
}

func bulkResource(c *api.Client, name string) *api.BulkResource {
	switch name {
	case api.ResourceIndustries:
		return c.Industries
	case api.ResourceStages:
		return c.Stages
	case api.ResourceTemplates:
		return c.Templates
	}
	return nil
}
