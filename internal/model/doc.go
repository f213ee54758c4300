// Package model defines the records exchanged with the CRM backend.
//
// Dates are kept as the backend's "YYYY-MM-DD" strings. Optional fields are
// pointers so that update payloads only carry what was set.
package model
