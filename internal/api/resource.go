package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Resource exposes the CRUD verbs of one backend collection.
type Resource struct {
	name      string
	resolver  *Resolver
	transport *Transport
}

// NewResource binds name to a resolver and transport.
func NewResource(name string, r *Resolver, t *Transport) *Resource {
	return &Resource{name: name, resolver: r, transport: t}
}

// Name returns the resource path, e.g. "accounts".
func (r *Resource) Name() string { return r.name }

// URL returns the collection URL.
func (r *Resource) URL() string { return r.resolver.CollectionURL(r.name) }

// List fetches one page of the collection.
func (r *Resource) List(ctx context.Context, opts ListOptions) (*Response, error) {
	return r.list(ctx, "", opts)
}

// Get fetches one record.
func (r *Resource) Get(ctx context.Context, id int) (*Response, error) {
	return r.do(ctx, http.MethodGet, itoa(id), nil, nil)
}

// Create posts a new record.
func (r *Resource) Create(ctx context.Context, body interface{}) (*Response, error) {
	return r.do(ctx, http.MethodPost, "", nil, body)
}

// Update replaces the fields given in body on record id.
func (r *Resource) Update(ctx context.Context, id int, body interface{}) (*Response, error) {
	return r.do(ctx, http.MethodPut, itoa(id), nil, body)
}

// Delete removes record id.
func (r *Resource) Delete(ctx context.Context, id int) (*Response, error) {
	return r.do(ctx, http.MethodDelete, itoa(id), nil, nil)
}

func (r *Resource) list(ctx context.Context, suffix string, opts ListOptions) (*Response, error) {
	q, err := opts.Values()
	if err != nil {
		return nil, err
	}
	return r.do(ctx, http.MethodGet, suffix, q, nil)
}

// do sends a request to the collection URL plus suffix. A non-nil body is
// encoded as JSON.
func (r *Resource) do(ctx context.Context, method, suffix string, q url.Values, body interface{}) (*Response, error) {
	req := Request{Method: method, URL: r.resolver.ItemURL(r.name, suffix), Query: q}
	if body != nil {
		rd, ct, err := JSONBody(body)
		if err != nil {
			return nil, err
		}
		req.Body, req.ContentType = rd, ct
	}
	return r.transport.Do(ctx, req)
}

func (r *Resource) send(ctx context.Context, method, suffix string, q url.Values, body io.Reader, contentType string) (*Response, error) {
	return r.transport.Do(ctx, Request{
		Method:      method,
		URL:         r.resolver.ItemURL(r.name, suffix),
		Query:       q,
		Body:        body,
		ContentType: contentType,
	})
}

func itoa(id int) string { return strconv.Itoa(id) }
