package api

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ResolverOptions selects how the API root is derived.
type ResolverOptions struct {
	// ServerURL is the backend origin used outside development mode.
	ServerURL string
	// DevMode derives the API origin from DevOrigin by swapping the UI
	// port for APIPort.
	DevMode   bool
	DevOrigin string
	APIPort   int
	// Prefix is the API path, "/api/v1" by default.
	Prefix string
}

// Resolver turns resource names into URLs.
type Resolver struct {
	root string
}

// NewResolver validates opts and computes the API root.
func NewResolver(opts ResolverOptions) (*Resolver, error) {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "/api/v1"
	}
	prefix = "/" + strings.Trim(prefix, "/")

	origin := opts.ServerURL
	if opts.DevMode {
		origin = opts.DevOrigin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing API origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("API origin %q must use http or https", origin)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("API origin %q has no host", origin)
	}

	if opts.DevMode {
		if opts.APIPort <= 0 || opts.APIPort > 65535 {
			return nil, fmt.Errorf("invalid API port %d", opts.APIPort)
		}
		u.Host = net.JoinHostPort(u.Hostname(), strconv.Itoa(opts.APIPort))
	}

	base := strings.TrimRight(u.Scheme+"://"+u.Host+u.Path, "/")
	return &Resolver{root: base + prefix}, nil
}

// Root returns the API root without a trailing slash.
func (r *Resolver) Root() string { return r.root }

// CollectionURL returns "<root>/<resource>/".
func (r *Resolver) CollectionURL(resource string) string {
	return r.root + "/" + strings.Trim(resource, "/") + "/"
}

// ItemURL returns "<root>/<resource>/<suffix>".
func (r *Resolver) ItemURL(resource, suffix string) string {
	return r.CollectionURL(resource) + strings.TrimLeft(suffix, "/")
}
