//go:build integration

package integration_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// testEnv holds the sandboxed directories and the fake backend of one test.
type testEnv struct {
	HomeDir     string // HOME, holds .presalesly/config.yaml
	UserdataDir string // PRESALESLY_USERDATA, holds session.json
	Backend     *fakeCRM
	Server      *httptest.Server
}

// setupTestEnv creates isolated temp directories and a fake backend, and
// sets environment variables so every presalesly operation is sandboxed.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		HomeDir:     t.TempDir(),
		UserdataDir: filepath.Join(t.TempDir(), "userdata"),
		Backend:     newFakeCRM(),
	}
	env.Server = httptest.NewServer(env.Backend)
	t.Cleanup(env.Server.Close)

	t.Setenv("HOME", env.HomeDir)
	t.Setenv("PRESALESLY_USERDATA", env.UserdataDir)
	t.Setenv("PRESALESLY_SERVER_URL", env.Server.URL)
	return env
}

// fakeCRM is a small in-memory stand-in for the backend: one account
// collection, a login endpoint and bearer token checks.
type fakeCRM struct {
	mu       sync.Mutex
	token    string
	accounts []map[string]interface{}
	filters  []string
	sorts    []string
}

func newFakeCRM() *fakeCRM {
	return &fakeCRM{
		token: "integration-token",
		accounts: []map[string]interface{}{
			{"id": 1, "name": "Acme", "country_code": "DE", "industry_id": 3},
			{"id": 2, "name": "Globex", "country_code": "US", "industry_id": 4},
		},
	}
}

func (f *fakeCRM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/api/v1/auth/login" {
		_ = r.ParseForm()
		if r.PostForm.Get("password") != "s3cret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": f.token, "token_type": "bearer"})
		return
	}

	if r.Header.Get("Authorization") != "Bearer "+f.token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/v1/accounts/":
		f.filters = append(f.filters, r.URL.Query().Get("filter"))
		f.sorts = append(f.sorts, r.URL.Query().Get("sort"))
		items := f.accounts
		if strings.Contains(r.URL.Query().Get("filter"), `"industry_id"`) {
			items = items[:1]
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items), "page": 1, "size": 50})
	case r.Method == http.MethodPost && r.URL.Path == "/api/v1/accounts/":
		var rec map[string]interface{}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &rec)
		rec["id"] = len(f.accounts) + 1
		f.accounts = append(f.accounts, rec)
		writeJSON(w, http.StatusOK, rec)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

// lastQuery returns the filter and sort parameters of the latest list call.
func (f *fakeCRM) lastQuery() (filter, sort string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.filters) == 0 {
		return "", ""
	}
	return f.filters[len(f.filters)-1], f.sorts[len(f.sorts)-1]
}

// revoke makes the backend reject the current token.
func (f *fakeCRM) revoke() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = "rotated"
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating parent dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file %s to exist: %v", path, err)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be absent, got err=%v", path, err)
	}
}
