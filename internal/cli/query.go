package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/queryspec"
)

var (
	queryOpts   queryFlags
	queryEncode bool
)

func init() {
	queryOpts.register(queryCmd)
	queryCmd.Flags().BoolVar(&queryEncode, "encode", false, "Print the URL query string instead of JSON")
	rootCmd.AddCommand(queryCmd)
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Translate filters and sorts into the backend wire format",
	Long: `Translate filter and sort input into the filter and sort documents sent to
the backend, without contacting it.

Examples:
  presalesly query --filter name:contains:acme --sort -created_at
  presalesly query --filter-file filters.yaml --encode`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, sorts, err := queryOpts.build(cmd.InOrStdin())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if queryEncode {
			var opts api.ListOptions
			if err := opts.SetQuery(filters, sorts); err != nil {
				return err
			}
			v, err := opts.Values()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, v.Encode())
			return nil
		}

		f, err := queryspec.CreateFilterSpec(filters)
		if err != nil {
			return err
		}
		s, err := queryspec.CreateSortSpec(sorts)
		if err != nil {
			return err
		}
		return printJSON(out, struct {
			Filter json.RawMessage `json:"filter"`
			Sort   json.RawMessage `json:"sort"`
		}{json.RawMessage(f), json.RawMessage(s)})
	},
}
