package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/model"
)

// ErrNotAuthenticated is returned when an operation needs a session and
// there is none.
var ErrNotAuthenticated = errors.New("not signed in")

// Authenticator exchanges credentials for a token response.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*api.Response, error)
}

// State is the in-memory view of the session.
type State struct {
	Authenticated     bool
	LoginLanguageCode string
	User              *model.UserDetail
}

// Manager owns the session state and its Store. It implements
// api.TokenSource and api.UnauthorizedHandler.
type Manager struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
	state  State
	now    func() time.Time
}

var (
	_ api.TokenSource         = (*Manager)(nil)
	_ api.UnauthorizedHandler = (*Manager)(nil)
)

// New returns a signed-out Manager. Call Init to restore a stored session.
func New(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Init restores the state from the store. A corrupt record is removed and
// leaves the manager signed out.
func (m *Manager) Init() error {
	rec, err := m.store.Load()
	if errors.Is(err, ErrCorrupt) {
		m.logger.Warn("discarding unreadable session", zap.Error(err))
		if _, cerr := m.store.Clear(); cerr != nil {
			return cerr
		}
		rec, err = nil, nil
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = State{}
	if rec == nil || rec.AccessToken == "" {
		return nil
	}
	m.state = State{Authenticated: true, LoginLanguageCode: rec.LoginLanguageCode, User: rec.User}
	if rec.Expired(m.now()) {
		m.logger.Warn("stored session has expired; the next request will ask to sign in again")
	}
	return nil
}

type tokenResponse struct {
	AccessToken string            `json:"access_token"`
	TokenType   string            `json:"token_type"`
	User        *model.UserDetail `json:"user"`
}

// Login authenticates and persists the session. When the response carries
// no access token the manager stays signed out and nothing is written.
func (m *Manager) Login(ctx context.Context, auth Authenticator, username, password, lang string) error {
	resp, err := auth.Login(ctx, username, password)
	if err != nil {
		m.setSignedOut()
		return fmt.Errorf("logging in: %w", err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		m.setSignedOut()
		return fmt.Errorf("decoding login response: %w", err)
	}
	if tr.AccessToken == "" {
		m.setSignedOut()
		return fmt.Errorf("%w: server returned no access token", ErrNotAuthenticated)
	}

	rec := Record{
		AccessToken:       tr.AccessToken,
		TokenType:         tr.TokenType,
		User:              tr.User,
		Username:          username,
		LoginLanguageCode: LanguageCode(lang),
		CreatedAt:         m.now().UTC(),
	}
	if err := m.store.Save(rec); err != nil {
		m.setSignedOut()
		return err
	}

	m.mu.Lock()
	m.state = State{Authenticated: true, LoginLanguageCode: rec.LoginLanguageCode, User: rec.User}
	m.mu.Unlock()
	m.logger.Debug("signed in", zap.String("subject", rec.Subject()))
	return nil
}

// Logout removes the stored session.
func (m *Manager) Logout() error {
	m.setSignedOut()
	if _, err := m.store.Clear(); err != nil {
		return err
	}
	return nil
}

// AccessToken reads the token from the store at call time, so a session
// cleared by another command is seen immediately.
func (m *Manager) AccessToken() (string, error) {
	rec, err := m.store.Load()
	if err != nil {
		return "", err
	}
	if rec == nil {
		return "", nil
	}
	return rec.AccessToken, nil
}

// HandleUnauthorized clears the session after the backend rejected it.
func (m *Manager) HandleUnauthorized() {
	m.setSignedOut()
	removed, err := m.store.Clear()
	if err != nil {
		m.logger.Error("clearing rejected session", zap.Error(err))
		return
	}
	if removed {
		m.logger.Info("session cleared after the server rejected it")
	}
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Record returns the stored record, or ErrNotAuthenticated.
func (m *Manager) Record() (*Record, error) {
	rec, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.AccessToken == "" {
		return nil, ErrNotAuthenticated
	}
	return rec, nil
}

func (m *Manager) setSignedOut() {
	m.mu.Lock()
	m.state = State{}
	m.mu.Unlock()
}

// LanguageCode turns a BCP 47 tag into the upper-case base language code
// the backend uses ("pt-BR" becomes "PT"). Unparseable input defaults to
// "EN".
func LanguageCode(tag string) string {
	t, err := language.Parse(strings.TrimSpace(tag))
	if err != nil || t == language.Und {
		return "EN"
	}
	base, _ := t.Base()
	return strings.ToUpper(base.String())
}
