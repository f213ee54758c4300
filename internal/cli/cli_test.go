package cli

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/presalesly/presalesly/internal/session"
	"github.com/presalesly/presalesly/internal/userdata"
)

type request struct {
	Method string
	Path   string
	Query  url.Values
	Auth   string
	Body   []byte
}

// backend is a canned HTTP server keyed by "METHOD /path".
type backend struct {
	mu       sync.Mutex
	requests []request
	status   map[string]int
	bodies   map[string]string
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path
	b.mu.Lock()
	b.requests = append(b.requests, request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Auth:   r.Header.Get("Authorization"),
		Body:   body,
	})
	status, ok := b.status[key]
	resp := b.bodies[key]
	b.mu.Unlock()
	if !ok {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if resp == "" {
		resp = `{}`
	}
	_, _ = w.Write([]byte(resp))
}

func (b *backend) on(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status[method+" "+path] = status
	b.bodies[method+" "+path] = body
}

func (b *backend) recorded() []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]request(nil), b.requests...)
}

// setup isolates HOME, userdata and viper state and points the CLI at a
// fresh backend.
func setup(t *testing.T) *backend {
	t.Helper()
	b := &backend{status: map[string]int{}, bodies: map[string]string{}}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PRESALESLY_USERDATA", filepath.Join(home, "userdata"))
	t.Setenv("PRESALESLY_SERVER_URL", srv.URL)
	t.Setenv("PRESALESLY_PASSWORD", "")
	viper.Reset()
	t.Cleanup(viper.Reset)
	return b
}

func signIn(t *testing.T, token string) *session.FileStore {
	t.Helper()
	path, err := userdata.GetSessionPath()
	require.NoError(t, err)
	store := session.NewFileStore(path)
	require.NoError(t, store.Save(session.Record{AccessToken: token, Username: "ana@example.com", LoginLanguageCode: "EN"}))
	return store
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default; cobra keeps values
// between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writePreferences(t *testing.T, content string) {
	t.Helper()
	root, err := userdata.EnsureRoot()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "preferences.yaml"), []byte(content), 0600))
}
