package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/config"
	"github.com/presalesly/presalesly/internal/userdata"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the presalesly config and userdata directories",
	Long: `Create ~/.presalesly/ with the userdata directory and a default
preferences.yaml. Existing files are left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if err := config.EnsureDir(); err != nil {
			return err
		}

		root, err := userdata.GetUserdataRoot()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Initializing userdata at %s\n", root)
		if err := userdata.InitGlobal(out); err != nil {
			return fmt.Errorf("initializing userdata: %w", err)
		}

		fmt.Fprintln(out, "\nUserdata initialized successfully.")
		fmt.Fprintf(out, "Point the CLI at your server with 'presalesly config set %s <url>'.\n", config.KeyServerURL)
		return nil
	},
}
