// Package document loads YAML or JSON input documents (filter models, sort
// lists, record payloads) and validates them against embedded JSON schemas.
package document
