package queryspec

import (
	"encoding/json"
	"fmt"
)

// Constraint is one comparison against a field. A nil Value means the
// constraint is unset and is left out of the wire document.
type Constraint struct {
	Operator Operator
	Value    interface{}
}

// Match builds a Constraint.
func Match(op Operator, value interface{}) Constraint {
	return Constraint{Operator: op, Value: value}
}

// FieldFilter is the filter attached to one field. It is one of Single,
// AllOf or AnyOf.
type FieldFilter interface {
	fieldFilter()
}

// Single is a lone constraint on a field.
type Single struct {
	Constraint
}

// AllOf requires every constraint to hold.
type AllOf []Constraint

// AnyOf requires at least one constraint to hold.
type AnyOf []Constraint

func (Single) fieldFilter() {}
func (AllOf) fieldFilter()  {}
func (AnyOf) fieldFilter()  {}

// FilterEntry pairs a field name with its filter.
type FilterEntry struct {
	Field  string
	Filter FieldFilter
}

// Filters is an ordered filter model. Output order follows entry order.
type Filters []FilterEntry

// Where appends a single constraint on field.
func (f Filters) Where(field string, op Operator, value interface{}) Filters {
	return append(f, FilterEntry{Field: field, Filter: Single{Match(op, value)}})
}

// WhereAll appends an AllOf group on field.
func (f Filters) WhereAll(field string, cs ...Constraint) Filters {
	return append(f, FilterEntry{Field: field, Filter: AllOf(cs)})
}

// WhereAny appends an AnyOf group on field.
func (f Filters) WhereAny(field string, cs ...Constraint) Filters {
	return append(f, FilterEntry{Field: field, Filter: AnyOf(cs)})
}

// SortOrder is the direction of a sort entry.
type SortOrder int

const (
	Ascending  SortOrder = 1
	Descending SortOrder = -1
)

// IsValid reports whether o is Ascending or Descending.
func (o SortOrder) IsValid() bool {
	return o == Ascending || o == Descending
}

func (o SortOrder) String() string {
	switch o {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return fmt.Sprintf("SortOrder(%d)", int(o))
}

// SortEntry is one column of a multi-column sort. Earlier entries take
// precedence.
type SortEntry struct {
	Field string
	Order SortOrder
}

// Aliases maps UI field names to the names the backend expects.
type Aliases map[string]string

// DefaultAliases is the alias table used by the package-level functions.
var DefaultAliases = Aliases{
	"industry.id": "industry_id",
}

// WireFilter is one entry of the backend filter document: either a term
// comparing a field, or a disjunction when Or is non-nil.
type WireFilter struct {
	Model    string
	Field    string
	Operator Operator
	Value    interface{}
	Or       []WireFilter
}

// IsDisjunction reports whether f is an {"or": [...]} entry.
func (f WireFilter) IsDisjunction() bool { return f.Or != nil }

type wireTerm struct {
	Model    string      `json:"model,omitempty"`
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value"`
}

type wireOr struct {
	Or []WireFilter `json:"or"`
}

// MarshalJSON emits {model?, field, operator, value} or {"or": [...]}.
func (f WireFilter) MarshalJSON() ([]byte, error) {
	if f.IsDisjunction() {
		return json.Marshal(wireOr{Or: f.Or})
	}
	return json.Marshal(wireTerm{Model: f.Model, Field: f.Field, Operator: f.Operator, Value: f.Value})
}

// UnmarshalJSON accepts either shape produced by MarshalJSON.
func (f *WireFilter) UnmarshalJSON(data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if raw, ok := probe["or"]; ok {
		var or []WireFilter
		if err := json.Unmarshal(raw, &or); err != nil {
			return err
		}
		if or == nil {
			or = []WireFilter{}
		}
		*f = WireFilter{Or: or}
		return nil
	}
	var t wireTerm
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	*f = WireFilter{Model: t.Model, Field: t.Field, Operator: t.Operator, Value: t.Value}
	return nil
}

// WireSort is one entry of the backend sort document.
type WireSort struct {
	Model string    `json:"model,omitempty"`
	Field string    `json:"field"`
	Order SortOrder `json:"order"`
}
