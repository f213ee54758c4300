package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:       "dashboard user|admin|data",
	Short:     "Show pipeline dashboard figures",
	Long:      `Show the signed-in user's pipeline figures (user), the figures across all users (admin), or the records behind them (data).`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"user", "admin", "data"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := signedInApp(ctx)
		if err != nil {
			return err
		}

		opps := a.client.Opportunities
		switch args[0] {
		case "user":
			resp, err := opps.UserDashboard(ctx)
			if err != nil {
				return fmt.Errorf("loading user dashboard: %w", err)
			}
			return printBody(cmd.OutOrStdout(), resp.Body)
		case "admin":
			resp, err := opps.AdminDashboard(ctx)
			if err != nil {
				return fmt.Errorf("loading admin dashboard: %w", err)
			}
			return printBody(cmd.OutOrStdout(), resp.Body)
		case "data":
			resp, err := opps.DashboardData(ctx)
			if err != nil {
				return fmt.Errorf("loading dashboard data: %w", err)
			}
			return printBody(cmd.OutOrStdout(), resp.Body)
		default:
			return fmt.Errorf("unknown dashboard %q (expected user, admin or data)", args[0])
		}
	},
}
