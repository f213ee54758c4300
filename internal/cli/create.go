package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/document"
)

var (
	createFile   string
	createDryRun bool
)

func init() {
	createCmd.Flags().StringVarP(&createFile, "file", "f", "", "YAML or JSON record (- for stdin)")
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "Validate the record without sending it")
	_ = createCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create <resource> -f <file>",
	Short: "Create a record from a YAML or JSON document",
	Long: `Create a record from a YAML or JSON document. The document is checked
against the record schema before anything is sent.

Example:
  presalesly create accounts -f acme.yaml`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: api.CRUDResources,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		body, err := loadRecord(cmd.InOrStdin(), createFile, name, document.Create)
		if err != nil {
			return err
		}
		if createDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid %s record\n", createFile, name)
			return nil
		}

		a, err := signedInApp(cmd.Context())
		if err != nil {
			return err
		}
		res, err := a.client.Resource(name)
		if err != nil {
			return err
		}
		resp, err := res.Create(cmd.Context(), body)
		if err != nil {
			return fmt.Errorf("creating %s: %w", name, err)
		}
		return printBody(cmd.OutOrStdout(), resp.Body)
	},
}

// loadRecord reads a record document and checks it against the schema for
// resource in the given mode.
func loadRecord(stdin io.Reader, path, resource string, mode document.Mode) (interface{}, error) {
	kind, err := document.KindForResource(resource)
	if err != nil {
		return nil, err
	}
	doc, err := document.LoadFile(path, stdin)
	if err != nil {
		return nil, err
	}
	if err := document.Check(doc, kind, mode); err != nil {
		return nil, err
	}
	return doc.Value()
}
