package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/branding"
	"github.com/presalesly/presalesly/internal/config"
	"github.com/presalesly/presalesly/internal/document"
	"github.com/presalesly/presalesly/internal/session"
	"github.com/presalesly/presalesly/internal/userdata"
)

var (
	checkConfig   bool
	checkUserdata bool
	checkSession  bool
	checkDocument string
	documentKind  string
	documentPatch bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&checkConfig, "check-config", false, "Verify configuration values")
	doctorCmd.Flags().BoolVar(&checkUserdata, "check-userdata", false, "Verify userdata directory")
	doctorCmd.Flags().BoolVar(&checkSession, "check-session", false, "Verify the stored session")
	doctorCmd.Flags().StringVar(&checkDocument, "check-document", "", "Validate a filter, sort or record document at the given path")
	doctorCmd.Flags().StringVar(&documentKind, "kind", string(document.KindFilters), "Document kind: filters, sorts, score_params or a resource name")
	doctorCmd.Flags().BoolVar(&documentPatch, "patch", false, "Validate a record document as a partial update")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false, "Repair userdata permissions and remove corrupt sessions")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Health check for the presalesly setup",
	Long:  `Run diagnostic checks on configuration, userdata and the stored session.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		anyFlag := checkConfig || checkUserdata || checkSession || checkDocument != ""

		if checkDocument != "" {
			if err := runDocumentCheck(out, cmd.InOrStdin(), checkDocument); err != nil {
				return err
			}
		}
		if !anyFlag || checkConfig {
			runConfigCheck(out)
		}
		if !anyFlag || checkUserdata {
			if err := userdata.CheckUserdata(out, doctorFix); err != nil {
				return err
			}
		}
		if !anyFlag || checkSession {
			runSessionCheck(out, doctorFix)
		}
		return nil
	},
}

func runConfigCheck(w io.Writer) {
	fmt.Fprintln(w, "Config check:")
	settings, err := config.Current()
	if err != nil {
		statusf(w, tagFail, "%s: %v", config.FilePath(), err)
		return
	}
	statusf(w, tagOK, "configuration is valid")

	r, err := api.NewResolver(api.ResolverOptions{
		ServerURL: settings.ServerURL,
		DevMode:   settings.DevMode,
		DevOrigin: settings.DevOrigin,
		APIPort:   settings.APIPort,
		Prefix:    branding.APIPrefix(),
	})
	if err != nil {
		statusf(w, tagFail, "API endpoint: %v", err)
		return
	}
	mode := "production"
	if settings.DevMode {
		mode = "development"
	}
	statusf(w, tagOK, "API endpoint %s (%s mode)", r.Root(), mode)
}

func runSessionCheck(w io.Writer, fix bool) {
	fmt.Fprintln(w, "Session check:")
	store, err := session.DefaultFileStore()
	if err != nil {
		statusf(w, tagFail, "%v", err)
		return
	}

	rec, err := store.Load()
	switch {
	case err != nil:
		statusf(w, tagFail, "%s: %v", store.Path(), err)
		if fix {
			if _, clearErr := store.Clear(); clearErr == nil {
				statusf(w, tagOK, "removed %s", store.Path())
			}
		}
		return
	case rec == nil:
		statusf(w, tagMiss, "not signed in (run %q)", branding.LoginHint())
		return
	}

	exp, ok := rec.ExpiresAt()
	switch {
	case !ok:
		statusf(w, tagWarn, "signed in as %s, token expiry unknown", rec.Subject())
	case rec.Expired(time.Now()):
		statusf(w, tagWarn, "session of %s expired at %s (run %q)", rec.Subject(), exp.Local().Format(time.RFC1123), branding.LoginHint())
	default:
		statusf(w, tagOK, "signed in as %s until %s", rec.Subject(), exp.Local().Format(time.RFC1123))
	}
}

func runDocumentCheck(w io.Writer, stdin io.Reader, path string) error {
	fmt.Fprintf(w, "Document validation: %s\n", path)

	kind := document.Kind(documentKind)
	if k, err := document.KindForResource(documentKind); err == nil {
		kind = k
	}
	mode := document.Create
	if documentPatch {
		mode = document.Update
	}

	doc, err := document.LoadFile(path, stdin)
	if err != nil {
		statusf(w, tagFail, "%v", err)
		return fmt.Errorf("document validation failed: %w", err)
	}
	result, err := document.Validate(doc, kind, mode)
	if err != nil {
		statusf(w, tagFail, "%v", err)
		return fmt.Errorf("document validation failed: %w", err)
	}

	if result.Valid {
		statusf(w, tagOK, "valid %s document", kind)
		return nil
	}

	statusf(w, tagFail, "%d validation issue(s):", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return result.Err()
}
