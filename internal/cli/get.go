package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:       "get <resource> <id>",
	Short:     "Show one record",
	Args:      cobra.ExactArgs(2),
	ValidArgs: api.CRUDResources,
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		a, err := signedInApp(cmd.Context())
		if err != nil {
			return err
		}
		res, err := a.client.Resource(args[0])
		if err != nil {
			return err
		}
		resp, err := res.Get(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("getting %s %d: %w", args[0], id, err)
		}
		return printBody(cmd.OutOrStdout(), resp.Body)
	},
}
