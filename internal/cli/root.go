package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/presalesly/presalesly/internal/branding"
	"github.com/presalesly/presalesly/internal/config"
	"github.com/presalesly/presalesly/internal/logging"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	verbose bool
	logger  = zap.NewNop()
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
}

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` talks to the CRM backend: accounts, opportunities, tasks,
the answers library and the admin lists (industries, stages, templates).

Filters and sorts given as flags or documents are translated into the
backend's wire format before each list call.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()

		l, err := logging.New(config.Get(config.KeyLogLevel), verbose)
		if err != nil {
			// A bad log_level must not lock the user out of "config set".
			l, err = logging.New("info", verbose)
			if err != nil {
				return err
			}
			l.Warn("ignoring log_level", zap.String("value", config.Get(config.KeyLogLevel)))
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command with build info injected via ldflags.
// Interrupts cancel the command context.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
