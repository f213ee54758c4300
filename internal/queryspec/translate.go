package queryspec

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Translator turns filter and sort models into wire documents using its
// alias table. The zero value uses no aliases.
type Translator struct {
	aliases Aliases
}

// NewTranslator returns a Translator over a copy of aliases.
func NewTranslator(aliases Aliases) *Translator {
	cp := make(Aliases, len(aliases))
	for k, v := range aliases {
		cp[k] = v
	}
	return &Translator{aliases: cp}
}

var defaultTranslator = NewTranslator(DefaultAliases)

// CreateFilterSpec encodes filters with DefaultAliases.
func CreateFilterSpec(filters Filters) (string, error) {
	return defaultTranslator.CreateFilterSpec(filters)
}

// CreateSortSpec encodes sorts with DefaultAliases.
func CreateSortSpec(sorts []SortEntry) (string, error) {
	return defaultTranslator.CreateSortSpec(sorts)
}

// CreateFilterSpec returns the JSON filter document for filters.
func (t *Translator) CreateFilterSpec(filters Filters) (string, error) {
	wire, err := t.BuildFilters(filters)
	if err != nil {
		return "", err
	}
	return encode(wire)
}

// CreateSortSpec returns the JSON sort document for sorts.
func (t *Translator) CreateSortSpec(sorts []SortEntry) (string, error) {
	wire, err := t.BuildSorts(sorts)
	if err != nil {
		return "", err
	}
	return encode(wire)
}

// BuildFilters translates filters into wire entries, in order.
func (t *Translator) BuildFilters(filters Filters) ([]WireFilter, error) {
	out := []WireFilter{}
	for _, entry := range filters {
		switch ff := entry.Filter.(type) {
		case Single:
			if ff.Value == nil {
				continue
			}
			term, err := t.term(entry.Field, ff.Constraint)
			if err != nil {
				return nil, err
			}
			out = append(out, term)

		case AllOf:
			for _, c := range ff {
				if c.Value == nil {
					continue
				}
				term, err := t.term(entry.Field, c)
				if err != nil {
					return nil, err
				}
				out = append(out, term)
			}

		case AnyOf:
			var or []WireFilter
			for _, c := range ff {
				if c.Value == nil {
					continue
				}
				term, err := t.term(entry.Field, c)
				if err != nil {
					return nil, err
				}
				or = append(or, term)
			}
			if len(or) > 0 {
				out = append(out, WireFilter{Or: or})
			}

		case nil:
			return nil, filterErr(entry.Field, "no filter given")

		default:
			return nil, filterErr(entry.Field, "unsupported filter type %T", entry.Filter)
		}
	}
	return out, nil
}

// BuildSorts translates sorts into wire entries, preserving precedence.
func (t *Translator) BuildSorts(sorts []SortEntry) ([]WireSort, error) {
	out := make([]WireSort, 0, len(sorts))
	for _, s := range sorts {
		if !s.Order.IsValid() {
			return nil, sortErr(s.Field, "order must be 1 or -1, got %d", int(s.Order))
		}
		model, field, err := t.resolve(s.Field)
		if err != nil {
			return nil, sortErr(s.Field, "%v", err)
		}
		out = append(out, WireSort{Model: model, Field: field, Order: s.Order})
	}
	return out, nil
}

func (t *Translator) term(name string, c Constraint) (WireFilter, error) {
	if !c.Operator.IsValid() {
		return WireFilter{}, filterErr(name, "unknown operator %q", c.Operator)
	}
	model, field, err := t.resolve(name)
	if err != nil {
		return WireFilter{}, filterErr(name, "%v", err)
	}
	return WireFilter{Model: model, Field: field, Operator: c.Operator, Value: c.Value}, nil
}

// resolve applies the alias table, then splits on the first '.'.
func (t *Translator) resolve(name string) (model, field string, err error) {
	if alias, ok := t.aliases[name]; ok {
		name = alias
	}
	if name == "" {
		return "", "", fmt.Errorf("empty field name")
	}
	model, field, dotted := strings.Cut(name, ".")
	if !dotted {
		return "", name, nil
	}
	if model == "" || field == "" {
		return "", "", fmt.Errorf("malformed dotted field name")
	}
	return model, field, nil
}

func encode(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding wire document: %w", err)
	}
	return string(b), nil
}
