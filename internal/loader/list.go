package loader

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/model"
)

// ErrSuperseded is returned by a Load whose result was dropped because a
// newer Load started before it finished.
var ErrSuperseded = errors.New("load superseded by a newer request")

// FetchFunc fetches the items of a list.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// List holds the items of one list view. Each Load takes a generation
// number; only the newest generation may write the state.
type List[T any] struct {
	fetch  FetchFunc[T]
	logger *zap.Logger

	mu      sync.Mutex
	gen     uint64
	items   []T
	loading bool
	err     error
}

// NewList creates an empty List.
func NewList[T any](fetch FetchFunc[T], logger *zap.Logger) *List[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &List[T]{fetch: fetch, logger: logger}
}

// Load fetches the list. A 404 is an empty list. Other errors are stored
// and returned.
func (l *List[T]) Load(ctx context.Context) ([]T, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.loading = true
	l.mu.Unlock()

	items, err := l.fetch(ctx)
	if api.IsNotFound(err) {
		items, err = []T{}, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		l.logger.Debug("dropping stale list response", zap.Uint64("generation", gen), zap.Uint64("current", l.gen))
		return nil, ErrSuperseded
	}
	l.loading = false
	if err != nil {
		l.err = err
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	l.items, l.err = items, nil
	return items, nil
}

// Items returns the last successfully loaded items.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// Loading reports whether the newest Load is still running.
func (l *List[T]) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Err returns the error of the newest finished Load.
func (l *List[T]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// PageFetcher returns a FetchFunc that lists one page of a resource.
// opts is called on every fetch so the options may change between loads.
// seen, when not nil, receives each decoded page for its paging totals.
func PageFetcher[T any](r *api.Resource, opts func() api.ListOptions, seen func(model.Page[T])) FetchFunc[T] {
	return func(ctx context.Context) ([]T, error) {
		resp, err := r.List(ctx, opts())
		if err != nil {
			return nil, err
		}
		page, err := api.DecodePage[T](resp)
		if err != nil {
			return nil, err
		}
		if seen != nil {
			seen(page)
		}
		return page.Items, nil
	}
}

// SliceFetcher returns a FetchFunc for endpoints that answer with a bare
// JSON array instead of a page.
func SliceFetcher[T any](call func(ctx context.Context) (*api.Response, error)) FetchFunc[T] {
	return func(ctx context.Context) ([]T, error) {
		resp, err := call(ctx)
		if err != nil {
			return nil, err
		}
		return api.DecodeJSON[[]T](resp)
	}
}
