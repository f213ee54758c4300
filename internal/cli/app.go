package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/branding"
	"github.com/presalesly/presalesly/internal/config"
	"github.com/presalesly/presalesly/internal/session"
	"github.com/presalesly/presalesly/internal/userdata"
)

// app is what a networked command needs: resolved settings, the user's
// preferences, the session and a client whose transport reads it.
type app struct {
	settings config.Settings
	prefs    *userdata.Preferences
	session  *session.Manager
	client   *api.Client
}

func newApp() (*app, error) {
	settings, err := config.Current()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", config.FilePath(), err)
	}

	prefs, err := userdata.LoadPreferencesOrDefault()
	if err != nil {
		return nil, err
	}

	store, err := session.DefaultFileStore()
	if err != nil {
		return nil, err
	}
	mgr := session.New(store, logger)
	if err := mgr.Init(); err != nil {
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	resolver, err := api.NewResolver(api.ResolverOptions{
		ServerURL: settings.ServerURL,
		DevMode:   settings.DevMode,
		DevOrigin: settings.DevOrigin,
		APIPort:   settings.APIPort,
		Prefix:    branding.APIPrefix(),
	})
	if err != nil {
		return nil, err
	}

	transport := api.NewTransport(
		api.WithTimeout(settings.Timeout),
		api.WithTokenSource(mgr),
		api.WithUnauthorizedHandler(mgr),
		api.WithLogger(logger),
		api.WithUserAgent(branding.CLIName()+"/"+buildVersion),
	)

	return &app{
		settings: settings,
		prefs:    prefs,
		session:  mgr,
		client:   api.NewClient(resolver, transport),
	}, nil
}

// requireSession fails early, before any request, when nobody is signed in.
func (a *app) requireSession() error {
	if !a.session.State().Authenticated {
		return fmt.Errorf("%w: run %q first", session.ErrNotAuthenticated, branding.LoginHint())
	}
	return nil
}

// language picks the list language: flag, then preferences, then config,
// in the backend's upper-case form.
func (a *app) language(flag string) string {
	switch {
	case flag != "":
		return session.LanguageCode(flag)
	case a.prefs.Language != "":
		return session.LanguageCode(a.prefs.Language)
	default:
		return session.LanguageCode(a.settings.Language)
	}
}

// jsonOutput reports whether output should be raw JSON.
func (a *app) jsonOutput(flag bool) bool {
	return flag || a.prefs.OutputFormat == userdata.OutputJSON
}

// signedInApp builds the app and checks for a session.
func signedInApp(ctx context.Context) (*app, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	if err := a.requireSession(); err != nil {
		return nil, err
	}
	return a, nil
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
