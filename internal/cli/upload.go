package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
)

func init() {
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload accounts|opportunities <csv-file>",
	Short: "Bulk load accounts or opportunities from a CSV file",
	Long: `Upload a CSV file of accounts or opportunities. Use - to read the file
from stdin.`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{api.ResourceAccounts, api.ResourceOpportunities},
	RunE: func(cmd *cobra.Command, args []string) error {
		name, path := args[0], args[1]
		if name != api.ResourceAccounts && name != api.ResourceOpportunities {
			return fmt.Errorf("uploads are only supported for %s and %s", api.ResourceAccounts, api.ResourceOpportunities)
		}

		var data io.Reader = cmd.InOrStdin()
		filename := "upload.csv"
		if path != "-" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("opening %s: %w", path, err)
			}
			defer f.Close()
			data, filename = f, path
		}

		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}

		var resp *api.Response
		if name == api.ResourceAccounts {
			resp, err = a.client.Accounts.Upload(ctx, filename, data)
		} else {
			resp, err = a.client.Opportunities.Upload(ctx, filename, data)
		}
		if err != nil {
			return fmt.Errorf("uploading %s: %w", name, err)
		}
		return printMessage(cmd.OutOrStdout(), resp)
	},
}
