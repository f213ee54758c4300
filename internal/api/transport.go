package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/presalesly/presalesly/internal/branding"
)

// SupportedAPIVersions is the range of backend versions this client is
// tested against. Backends that do not send X-API-Version are not checked.
const SupportedAPIVersions = ">= 1.0.0, < 2.0.0"

const (
	headerRequestID  = "X-Request-ID"
	headerAPIVersion = "X-API-Version"
)

var supportedVersions = func() *semver.Constraints {
	c, err := semver.NewConstraint(SupportedAPIVersions)
	if err != nil {
		panic(err)
	}
	return c
}()

// TokenSource supplies the bearer token at dispatch time. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	AccessToken() (string, error)
}

// UnauthorizedHandler is told when the backend answers 401 to an
// authenticated request.
type UnauthorizedHandler interface {
	HandleUnauthorized()
}

// Response is the raw result of a request.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Request describes one call made through the Transport.
type Request struct {
	Method string
	URL    string
	Query  url.Values
	// Body is sent as-is with ContentType. Use JSONBody for JSON payloads.
	Body        io.Reader
	ContentType string
	// Anonymous skips the bearer token and 401 handling, as the login
	// call does.
	Anonymous bool
}

// JSONBody encodes v for a Request body.
func JSONBody(v interface{}) (io.Reader, string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("encoding request body: %w", err)
	}
	return bytes.NewReader(b), "application/json", nil
}

// Transport performs authenticated HTTP requests.
type Transport struct {
	httpClient   *http.Client
	tokens       TokenSource
	unauthorized UnauthorizedHandler
	logger       *zap.Logger
	userAgent    string
	versions     *semver.Constraints
	versionOnce  sync.Once
}

// TransportOption configures a Transport.
type TransportOption func(*Transport)

// WithHTTPClient sets the underlying client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *Transport) { t.httpClient = c }
}

// WithTimeout sets the request timeout of the default client.
func WithTimeout(d time.Duration) TransportOption {
	return func(t *Transport) { t.httpClient.Timeout = d }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) TransportOption {
	return func(t *Transport) { t.tokens = ts }
}

// WithUnauthorizedHandler sets the 401 hook.
func WithUnauthorizedHandler(h UnauthorizedHandler) TransportOption {
	return func(t *Transport) { t.unauthorized = h }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) TransportOption {
	return func(t *Transport) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) TransportOption {
	return func(t *Transport) { t.userAgent = ua }
}

// NewTransport creates a Transport. Without options it sends anonymous
// requests with a 30 second timeout.
func NewTransport(opts ...TransportOption) *Transport {
	t := &Transport{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     zap.NewNop(),
		userAgent:  branding.CLIName(),
		versions:   supportedVersions,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Do sends req. A 401 on an authenticated request notifies the
// UnauthorizedHandler once and returns ErrSessionExpired; any other non-2xx
// status returns *HTTPError.
func (t *Transport) Do(ctx context.Context, req Request) (*Response, error) {
	target := req.URL
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, req.Body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if t.userAgent != "" {
		httpReq.Header.Set("User-Agent", t.userAgent)
	}
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	if !req.Anonymous && t.tokens != nil {
		token, err := t.tokens.AccessToken()
		if err != nil {
			return nil, fmt.Errorf("reading access token: %w", err)
		}
		if token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	log := t.logger.With(
		zap.String("method", req.Method),
		zap.String("url", req.URL),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	log.Debug("request done",
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("bytes", len(body)),
	)

	t.checkVersion(resp.Header.Get(headerAPIVersion))

	if resp.StatusCode == http.StatusUnauthorized && !req.Anonymous {
		if t.unauthorized != nil {
			t.unauthorized.HandleUnauthorized()
		}
		log.Warn("session rejected by server")
		return nil, fmt.Errorf("%w: run %q to sign in again", ErrSessionExpired, branding.LoginHint())
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Header:     resp.Header,
			Body:       body,
		}
	}

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}, nil
}

// checkVersion warns once per Transport when the server reports a version
// outside SupportedAPIVersions.
func (t *Transport) checkVersion(header string) {
	if header == "" {
		return
	}
	v, err := semver.NewVersion(header)
	if err != nil {
		t.logger.Debug("ignoring malformed API version", zap.String("version", header))
		return
	}
	if t.versions.Check(v) {
		return
	}
	t.versionOnce.Do(func() {
		t.logger.Warn("server API version is outside the supported range",
			zap.String("version", v.String()),
			zap.String("supported", SupportedAPIVersions),
		)
	})
}
