package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/presalesly/presalesly/internal/branding"
)

var (
	loginUser          string
	loginPasswordStdin bool
	loginLang          string
)

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "username", "u", "", "Account email (prompted when unset)")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.Flags().StringVar(&loginLang, "lang", "", "Language to sign in with")
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	Long: `Sign in and store the session in ~/.presalesly/userdata/session.json.

The password is read from the terminal without echo, from stdin with
--password-stdin, or from the ` + branding.EnvVar("PASSWORD") + ` environment variable.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		username := strings.TrimSpace(loginUser)
		if username == "" {
			fmt.Fprint(out, "Email: ")
			if username, err = readLine(in); err != nil {
				return fmt.Errorf("reading username: %w", err)
			}
		}
		if username == "" {
			return fmt.Errorf("a username is required")
		}

		password, err := readPassword(cmd, in)
		if err != nil {
			return err
		}

		lang := loginLang
		if lang == "" {
			lang = a.language("")
		}
		if err := a.session.Login(cmd.Context(), a.client.Auth, username, password, lang); err != nil {
			return err
		}

		rec, err := a.session.Record()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed in as %s\n", rec.Subject())
		return nil
	},
}

func readPassword(cmd *cobra.Command, in *bufio.Reader) (string, error) {
	if !loginPasswordStdin {
		if p := os.Getenv(branding.EnvVar("PASSWORD")); p != "" {
			return p, nil
		}
		if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprint(cmd.OutOrStdout(), "Password: ")
			b, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return "", fmt.Errorf("reading password: %w", err)
			}
			return string(b), nil
		}
	}
	p, err := readLine(in)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	if p == "" {
		return "", fmt.Errorf("a password is required")
	}
	return p, nil
}

// readLine reads one line without its line ending. A final line without a
// newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
