package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/document"
)

var updateFile string

func init() {
	updateCmd.Flags().StringVarP(&updateFile, "file", "f", "", "YAML or JSON fields to change (- for stdin)")
	_ = updateCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update <resource> <id> -f <file>",
	Short: "Update a record",
	Long: `Update a record with the fields of a YAML or JSON document. Only the
fields present are checked, so partial documents are accepted.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: api.CRUDResources,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		body, err := loadRecord(cmd.InOrStdin(), updateFile, name, document.Update)
		if err != nil {
			return err
		}

		a, err := signedInApp(cmd.Context())
		if err != nil {
			return err
		}
		res, err := a.client.Resource(name)
		if err != nil {
			return err
		}
		resp, err := res.Update(cmd.Context(), id, body)
		if err != nil {
			return fmt.Errorf("updating %s %d: %w", name, id, err)
		}
		return printBody(cmd.OutOrStdout(), resp.Body)
	},
}
