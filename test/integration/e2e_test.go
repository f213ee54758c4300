//go:build integration

package integration_test

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/branding"
	"github.com/presalesly/presalesly/internal/config"
	"github.com/presalesly/presalesly/internal/document"
	"github.com/presalesly/presalesly/internal/loader"
	"github.com/presalesly/presalesly/internal/model"
	"github.com/presalesly/presalesly/internal/queryspec"
	"github.com/presalesly/presalesly/internal/session"
	"github.com/presalesly/presalesly/internal/userdata"
)

// stack is the client stack a command builds: session manager, client and
// the settings they came from.
type stack struct {
	settings config.Settings
	session  *session.Manager
	store    *session.FileStore
	client   *api.Client
}

func newStack(t *testing.T) *stack {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)
	config.Load()
	settings, err := config.Current()
	if err != nil {
		t.Fatalf("config.Current: %v", err)
	}

	store, err := session.DefaultFileStore()
	if err != nil {
		t.Fatalf("DefaultFileStore: %v", err)
	}
	mgr := session.New(store, nil)
	if err := mgr.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}

	resolver, err := api.NewResolver(api.ResolverOptions{
		ServerURL: settings.ServerURL,
		Prefix:    branding.APIPrefix(),
	})
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	transport := api.NewTransport(
		api.WithTimeout(settings.Timeout),
		api.WithTokenSource(mgr),
		api.WithUnauthorizedHandler(mgr),
	)
	return &stack{settings: settings, session: mgr, store: store, client: api.NewClient(resolver, transport)}
}

// TestFullFlowLoginListCreate tests the complete flow:
// init userdata -> login -> filtered list -> validated create -> session
// rejected by the server.
func TestFullFlowLoginListCreate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	// Step 1: Initialize userdata.
	if err := userdata.InitGlobal(io.Discard); err != nil {
		t.Fatalf("InitGlobal: %v", err)
	}
	s := newStack(t)

	// Step 2: Sign in; the session record lands in userdata.
	if err := s.session.Login(ctx, s.client.Auth, "ana@example.com", "s3cret", s.settings.Language); err != nil {
		t.Fatalf("Login: %v", err)
	}
	assertFileExists(t, filepath.Join(env.UserdataDir, userdata.SessionFile))
	if !s.session.State().Authenticated {
		t.Fatal("expected an authenticated session")
	}

	// Step 3: List accounts through the translator and a loader.
	filters := queryspec.Filters{}.
		Where("industry.id", queryspec.Equals, 3).
		Where("name", queryspec.Contains, nil)
	opts := api.ListOptions{LangCode: session.LanguageCode(s.settings.Language)}
	if err := opts.SetQuery(filters, []queryspec.SortEntry{{Field: "name", Order: queryspec.Descending}}); err != nil {
		t.Fatalf("SetQuery: %v", err)
	}

	var total int
	list := loader.NewList(loader.PageFetcher(s.client.Accounts.Resource, func() api.ListOptions { return opts },
		func(p model.Page[model.Account]) { total = p.Total }), nil)
	items, err := list.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Acme" || total != 1 {
		t.Fatalf("expected only Acme, got %+v (total %d)", items, total)
	}
	gotFilter, gotSort := env.Backend.lastQuery()
	if gotFilter != `[{"field":"industry_id","operator":"equals","value":3}]` {
		t.Errorf("unexpected filter parameter %s", gotFilter)
	}
	if gotSort != `[{"field":"name","order":-1}]` {
		t.Errorf("unexpected sort parameter %s", gotSort)
	}

	// Step 4: Create an account from a validated document.
	path := filepath.Join(env.HomeDir, "initech.yaml")
	writeFile(t, path, "name: Initech\ncountry_code: US\nnumber_of_employees: 120\n")
	doc, err := document.LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if err := document.Check(doc, document.KindAccount, document.Create); err != nil {
		t.Fatalf("Check: %v", err)
	}
	body, err := doc.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	resp, err := s.client.Accounts.Create(ctx, body)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	created, err := api.DecodeJSON[model.Account](resp)
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if created.ID != 3 || created.NumberOfEmployees == nil || *created.NumberOfEmployees != 120 {
		t.Errorf("unexpected created account %+v", created)
	}

	// Step 5: The server rotates its token; the next call clears the session.
	env.Backend.revoke()
	_, err = list.Load(ctx)
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !errors.Is(list.Err(), api.ErrSessionExpired) {
		t.Errorf("expected the loader to keep the error, got %v", list.Err())
	}
	if s.session.State().Authenticated {
		t.Error("expected the session to be cleared")
	}
	assertNotExists(t, filepath.Join(env.UserdataDir, userdata.SessionFile))
}

// TestFullFlowRejectedLogin verifies that failed credentials leave no
// session behind.
func TestFullFlowRejectedLogin(t *testing.T) {
	env := setupTestEnv(t)
	s := newStack(t)

	err := s.session.Login(context.Background(), s.client.Auth, "ana@example.com", "wrong", "en")
	if err == nil {
		t.Fatal("expected login to fail")
	}
	if api.StatusCode(err) != 401 || !strings.Contains(err.Error(), "Incorrect username or password") {
		t.Errorf("unexpected error %v", err)
	}
	assertNotExists(t, filepath.Join(env.UserdataDir, userdata.SessionFile))
}

// TestFullFlowSessionSurvivesRestart verifies that a second stack, as built
// by the next command, picks up the stored session.
func TestFullFlowSessionSurvivesRestart(t *testing.T) {
	setupTestEnv(t)
	ctx := context.Background()

	first := newStack(t)
	if err := first.session.Login(ctx, first.client.Auth, "ana@example.com", "s3cret", "de-AT"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	second := newStack(t)
	state := second.session.State()
	if !state.Authenticated || state.LoginLanguageCode != "DE" {
		t.Fatalf("unexpected restored state %+v", state)
	}
	if _, err := second.client.Accounts.List(ctx, api.ListOptions{}); err != nil {
		t.Fatalf("List with restored session: %v", err)
	}

	if err := second.session.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := first.client.Accounts.List(ctx, api.ListOptions{}); !errors.Is(err, api.ErrSessionExpired) {
		t.Errorf("expected the first stack to see the logout, got %v", err)
	}
}

// TestFullFlowUserdataInit verifies the global userdata initialization flow.
func TestFullFlowUserdataInit(t *testing.T) {
	env := setupTestEnv(t)

	if err := userdata.InitGlobal(io.Discard); err != nil {
		t.Fatalf("InitGlobal: %v", err)
	}
	assertFileExists(t, filepath.Join(env.UserdataDir, "preferences.yaml"))

	prefs, err := userdata.LoadPreferences()
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.PageSize != api.DefaultPageSize {
		t.Errorf("expected page size %d, got %d", api.DefaultPageSize, prefs.PageSize)
	}

	// Calling InitGlobal again should be idempotent (skip existing).
	if err := userdata.InitGlobal(io.Discard); err != nil {
		t.Fatalf("InitGlobal (second call): %v", err)
	}
}
