// Package queryspec converts the filter and sort model a list view works
// with into the filter and sort documents the backend accepts as the
// "filter" and "sort" query parameters.
//
// A filter model is an ordered list of fields, each carrying one of three
// shapes: a Single constraint, an AllOf group or an AnyOf group. Constraints
// whose value is nil are never emitted. AllOf constraints become independent
// top-level terms, which the backend combines with AND together with every
// other top-level term. AnyOf constraints nest under one {"or": [...]} term.
//
// Field names pass through an alias table before dotted names are split on
// the first '.' into a related model and its field:
//
//	industry.id  -> {"field": "industry_id"}        (aliased)
//	owner.email  -> {"model": "owner", "field": "email"}
package queryspec
