package queryspec

import (
	"fmt"
	"sort"
)

// Operator is a comparison understood by the backend filter engine.
type Operator string

const (
	Equals      Operator = "equals"
	NotEquals   Operator = "notEquals"
	GreaterThan Operator = "gt"
	GreaterEq   Operator = "gte"
	LessThan    Operator = "lt"
	LessEq      Operator = "lte"
	StartsWith  Operator = "startsWith"
	EndsWith    Operator = "endsWith"
	Contains    Operator = "contains"
	NotContains Operator = "notContains"
	In          Operator = "in"
	NotIn       Operator = "not_in"
	DateIs      Operator = "dateIs"
	DateIsNot   Operator = "dateIsNot"
	DateBefore  Operator = "dateBefore"
	DateAfter   Operator = "dateAfter"
	Between     Operator = "between"

	// Symbolic spellings accepted by the backend alongside the named ones.
	SymEq  Operator = "=="
	SymNe  Operator = "!="
	SymGt  Operator = ">"
	SymLt  Operator = "<"
	SymGte Operator = ">="
	SymLte Operator = "<="
)

var validOperators = map[Operator]bool{
	Equals: true, NotEquals: true, GreaterThan: true, GreaterEq: true,
	LessThan: true, LessEq: true, StartsWith: true, EndsWith: true,
	Contains: true, NotContains: true, In: true, NotIn: true,
	DateIs: true, DateIsNot: true, DateBefore: true, DateAfter: true,
	Between: true,
	SymEq: true, SymNe: true, SymGt: true, SymLt: true, SymGte: true, SymLte: true,
}

// IsValid reports whether the backend accepts op.
func (op Operator) IsValid() bool {
	return validOperators[op]
}

// ValidOperators returns every accepted operator, sorted.
func ValidOperators() []Operator {
	ops := make([]Operator, 0, len(validOperators))
	for op := range validOperators {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// ParseOperator validates s as an Operator.
func ParseOperator(s string) (Operator, error) {
	op := Operator(s)
	if !op.IsValid() {
		return "", fmt.Errorf("%w: unknown operator %q", ErrInvalidFilter, s)
	}
	return op, nil
}
