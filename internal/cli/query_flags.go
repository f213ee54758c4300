package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/presalesly/presalesly/internal/document"
	"github.com/presalesly/presalesly/internal/queryspec"
)

// queryFlags are the filter and sort flags shared by list and query.
type queryFlags struct {
	filters    []string
	matchAny   bool
	filterFile string
	sorts      []string
	sortFile   string
}

func (q *queryFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArrayVar(&q.filters, "filter", nil, `Filter as field:operator:value, e.g. "name:contains:acme" (repeatable)`)
	f.BoolVar(&q.matchAny, "any", false, "Match any constraint given for the same field instead of all of them")
	f.StringVar(&q.filterFile, "filter-file", "", "YAML or JSON filter document (- for stdin)")
	f.StringArrayVar(&q.sorts, "sort", nil, `Sort by field, "-field" for descending (repeatable)`)
	f.StringVar(&q.sortFile, "sort-file", "", "YAML or JSON sort document (- for stdin)")
}

// build assembles the filter and sort model. Document entries come first,
// flag entries follow in the order given.
func (q *queryFlags) build(stdin io.Reader) (queryspec.Filters, []queryspec.SortEntry, error) {
	if q.filterFile == "-" && q.sortFile == "-" {
		return nil, nil, fmt.Errorf("--filter-file and --sort-file cannot both read stdin")
	}

	var filters queryspec.Filters
	if q.filterFile != "" {
		doc, err := document.LoadFile(q.filterFile, stdin)
		if err != nil {
			return nil, nil, err
		}
		if filters, err = queryspec.FiltersFromDocument(doc); err != nil {
			return nil, nil, err
		}
	}
	flagFilters, err := groupFilterFlags(q.filters, q.matchAny)
	if err != nil {
		return nil, nil, err
	}
	filters = append(filters, flagFilters...)

	var sorts []queryspec.SortEntry
	if q.sortFile != "" {
		doc, err := document.LoadFile(q.sortFile, stdin)
		if err != nil {
			return nil, nil, err
		}
		if sorts, err = queryspec.SortsFromDocument(doc); err != nil {
			return nil, nil, err
		}
	}
	for _, s := range q.sorts {
		e, err := queryspec.ParseSortFlag(s)
		if err != nil {
			return nil, nil, err
		}
		sorts = append(sorts, e)
	}
	return filters, sorts, nil
}

// groupFilterFlags turns repeated --filter flags into field entries. Flags
// naming the same field form one group, ANDed unless matchAny is set.
func groupFilterFlags(flags []string, matchAny bool) (queryspec.Filters, error) {
	var order []string
	byField := map[string][]queryspec.Constraint{}
	for _, s := range flags {
		field, c, err := queryspec.ParseFilterFlag(s)
		if err != nil {
			return nil, err
		}
		if _, seen := byField[field]; !seen {
			order = append(order, field)
		}
		byField[field] = append(byField[field], c)
	}

	var out queryspec.Filters
	for _, field := range order {
		cs := byField[field]
		switch {
		case len(cs) == 1:
			out = out.Where(field, cs[0].Operator, cs[0].Value)
		case matchAny:
			out = out.WhereAny(field, cs...)
		default:
			out = out.WhereAll(field, cs...)
		}
	}
	return out, nil
}
