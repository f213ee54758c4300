package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(logoutCmd)
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		wasSignedIn := a.session.State().Authenticated
		if err := a.session.Logout(); err != nil {
			return fmt.Errorf("signing out: %w", err)
		}
		if wasSignedIn {
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		}
		return nil
	},
}
