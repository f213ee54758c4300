package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/branding"
)

var whoamiJSON bool

func init() {
	whoamiCmd.Flags().BoolVar(&whoamiJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(whoamiCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := signedInApp(cmd.Context())
		if err != nil {
			return err
		}
		rec, err := a.session.Record()
		if err != nil {
			return err
		}

		exp, hasExp := rec.ExpiresAt()
		out := cmd.OutOrStdout()
		if a.jsonOutput(whoamiJSON) {
			info := map[string]interface{}{
				"subject":             rec.Subject(),
				"login_language_code": rec.LoginLanguageCode,
				"user":                rec.User,
				"signed_in_at":        rec.CreatedAt,
			}
			if hasExp {
				info["expires_at"] = exp
			}
			return printJSON(out, info)
		}

		fmt.Fprintf(out, "User:      %s\n", rec.Subject())
		if rec.User != nil {
			fmt.Fprintf(out, "Name:      %s\n", rec.User.DisplayName())
			fmt.Fprintf(out, "Role:      %s\n", rec.User.RoleID)
		}
		fmt.Fprintf(out, "Language:  %s\n", rec.LoginLanguageCode)
		if !rec.CreatedAt.IsZero() {
			fmt.Fprintf(out, "Signed in: %s\n", rec.CreatedAt.Local().Format(time.RFC1123))
		}
		switch {
		case !hasExp:
			fmt.Fprintln(out, "Expires:   unknown")
		case rec.Expired(time.Now()):
			fmt.Fprintf(out, "Expires:   %s (expired, run %q)\n", exp.Local().Format(time.RFC1123), branding.LoginHint())
		default:
			fmt.Fprintf(out, "Expires:   %s (in %s)\n", exp.Local().Format(time.RFC1123), time.Until(exp).Round(time.Minute))
		}
		return nil
	},
}
