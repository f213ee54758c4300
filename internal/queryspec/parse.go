package queryspec

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/presalesly/presalesly/internal/document"
)

// ParseFilters decodes a UI filter document, JSON or YAML, keyed by field:
//
//	{"name": {"value": "acme", "matchMode": "contains"},
//	 "status": {"operator": "or", "constraints": [{"value": "Won", "matchMode": "equals"}]}}
//
// A single constraint may name its operator with "matchMode" or "operator".
// Key order is preserved.
func ParseFilters(data []byte) (Filters, error) {
	doc, err := document.Parse("filters", data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}
	return FiltersFromDocument(doc)
}

// FiltersFromDocument validates doc and converts it into Filters.
func FiltersFromDocument(doc *document.Document) (Filters, error) {
	if err := document.Check(doc, document.KindFilters, document.Create); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFilter, err)
	}

	root := doc.Node
	filters := make(Filters, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		field := root.Content[i].Value
		entry := root.Content[i+1]

		if _, ok := lookup(entry, "value"); ok {
			c, err := constraintFromNode(field, entry)
			if err != nil {
				return nil, err
			}
			filters = append(filters, FilterEntry{Field: field, Filter: Single{c}})
			continue
		}

		opNode, _ := lookup(entry, "operator")
		listNode, _ := lookup(entry, "constraints")
		var cs []Constraint
		for _, item := range listNode.Content {
			c, err := constraintFromNode(field, item)
			if err != nil {
				return nil, err
			}
			cs = append(cs, c)
		}
		switch opNode.Value {
		case "and":
			filters = append(filters, FilterEntry{Field: field, Filter: AllOf(cs)})
		case "or":
			filters = append(filters, FilterEntry{Field: field, Filter: AnyOf(cs)})
		default:
			return nil, filterErr(field, "unknown group operator %q", opNode.Value)
		}
	}
	return filters, nil
}

func constraintFromNode(field string, n *yaml.Node) (Constraint, error) {
	opNode, ok := lookup(n, "matchMode")
	if !ok {
		opNode, ok = lookup(n, "operator")
	}
	if !ok {
		return Constraint{}, filterErr(field, "constraint has no matchMode")
	}
	valueNode, _ := lookup(n, "value")
	value, err := document.DecodeNode(valueNode)
	if err != nil {
		return Constraint{}, filterErr(field, "decoding value: %v", err)
	}
	return Constraint{Operator: Operator(opNode.Value), Value: value}, nil
}

// lookup finds key in a mapping node.
func lookup(n *yaml.Node, key string) (*yaml.Node, bool) {
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, false
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1], true
		}
	}
	return nil, false
}

// ParseSorts decodes a UI sort document: [{"field": "name", "order": 1}].
func ParseSorts(data []byte) ([]SortEntry, error) {
	doc, err := document.Parse("sorts", data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSort, err)
	}
	return SortsFromDocument(doc)
}

// SortsFromDocument validates doc and converts it into sort entries.
func SortsFromDocument(doc *document.Document) ([]SortEntry, error) {
	if err := document.Check(doc, document.KindSorts, document.Create); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSort, err)
	}
	var raw []struct {
		Field string `yaml:"field"`
		Order int    `yaml:"order"`
	}
	if err := doc.Node.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSort, err)
	}
	sorts := make([]SortEntry, len(raw))
	for i, r := range raw {
		sorts[i] = SortEntry{Field: r.Field, Order: SortOrder(r.Order)}
	}
	return sorts, nil
}

// ParseFilterFlag parses "field:operator:value". The value is read as JSON
// when it parses as JSON and as a plain string otherwise, so
// "stage_id:in:[1,2]" and "name:contains:acme" both work.
func ParseFilterFlag(s string) (string, Constraint, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", Constraint{}, filterErr("", "expected field:operator:value, got %q", s)
	}
	op, err := ParseOperator(parts[1])
	if err != nil {
		return "", Constraint{}, filterErr(parts[0], "unknown operator %q", parts[1])
	}
	return parts[0], Constraint{Operator: op, Value: flagValue(parts[2])}, nil
}

func flagValue(s string) interface{} {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	if v == nil {
		return s
	}
	return v
}

// ParseSortFlag parses "field", "+field", "-field", "field:asc" or
// "field:desc".
func ParseSortFlag(s string) (SortEntry, error) {
	field, dir, hasDir := strings.Cut(s, ":")
	order := Ascending
	switch {
	case hasDir:
		switch strings.ToLower(dir) {
		case "asc", "1":
		case "desc", "-1":
			order = Descending
		default:
			return SortEntry{}, sortErr(field, "unknown direction %q", dir)
		}
	case strings.HasPrefix(field, "-"):
		field, order = field[1:], Descending
	case strings.HasPrefix(field, "+"):
		field = field[1:]
	}
	if field == "" {
		return SortEntry{}, sortErr("", "empty field in %q", s)
	}
	return SortEntry{Field: field, Order: order}, nil
}
