package api

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/presalesly/presalesly/internal/model"
	"github.com/presalesly/presalesly/internal/queryspec"
)

const (
	// MaxPageSize is the largest page the backend serves.
	MaxPageSize = 100
	// DefaultPageSize is the page size the backend uses when none is sent.
	DefaultPageSize = 50
)

var encoder = schema.NewEncoder()

// ListOptions are the query parameters of a list call. Filter and Sort are
// wire documents as produced by queryspec; zero values are omitted.
type ListOptions struct {
	Filter   string `schema:"filter,omitempty"`
	Sort     string `schema:"sort,omitempty"`
	Page     int    `schema:"page,omitempty"`
	Size     int    `schema:"size,omitempty"`
	LangCode string `schema:"lang_code,omitempty"`
	// Extra carries endpoint specific parameters.
	Extra url.Values `schema:"-"`
}

// SetQuery translates a filter and sort model into Filter and Sort.
func (o *ListOptions) SetQuery(filters queryspec.Filters, sorts []queryspec.SortEntry) error {
	if len(filters) > 0 {
		f, err := queryspec.CreateFilterSpec(filters)
		if err != nil {
			return err
		}
		o.Filter = f
	}
	if len(sorts) > 0 {
		s, err := queryspec.CreateSortSpec(sorts)
		if err != nil {
			return err
		}
		o.Sort = s
	}
	return nil
}

// Values validates o and encodes it as a query string.
func (o ListOptions) Values() (url.Values, error) {
	if o.Page < 0 {
		return nil, fmt.Errorf("page must be at least 1, got %d", o.Page)
	}
	if o.Size < 0 || o.Size > MaxPageSize {
		return nil, fmt.Errorf("size must be between 1 and %d, got %d", MaxPageSize, o.Size)
	}
	return encode(o, o.Extra)
}

// TrainOptions are the query parameters of a training run.
type TrainOptions struct {
	Algorithm    model.Algorithm `schema:"algorithm,omitempty"`
	SetAsDefault *bool           `schema:"set_as_default,omitempty"`
}

// Values validates o and encodes it as a query string.
func (o TrainOptions) Values() (url.Values, error) {
	if o.Algorithm != "" && !o.Algorithm.IsValid() {
		return nil, fmt.Errorf("unknown algorithm %q", o.Algorithm)
	}
	return encode(o, nil)
}

// SearchOptions are the query parameters of a hyperparameter search.
type SearchOptions struct {
	Algorithm        model.Algorithm `schema:"algorithm,omitempty"`
	Scoring          model.Scoring   `schema:"scoring,omitempty"`
	Iterations       int             `schema:"n_iterations,omitempty"`
	SetBestAsDefault *bool           `schema:"set_best_as_default,omitempty"`
}

// Values validates o and encodes it as a query string.
func (o SearchOptions) Values() (url.Values, error) {
	if o.Algorithm != "" && !o.Algorithm.IsValid() {
		return nil, fmt.Errorf("unknown algorithm %q", o.Algorithm)
	}
	if o.Scoring != "" && !o.Scoring.IsValid() {
		return nil, fmt.Errorf("unknown scoring %q", o.Scoring)
	}
	if o.Iterations < 0 {
		return nil, fmt.Errorf("iterations must be positive, got %d", o.Iterations)
	}
	return encode(o, nil)
}

func encode(src interface{}, extra url.Values) (url.Values, error) {
	v := url.Values{}
	if err := encoder.Encode(src, v); err != nil {
		return nil, fmt.Errorf("encoding query parameters: %w", err)
	}
	for k, vals := range extra {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	return v, nil
}
