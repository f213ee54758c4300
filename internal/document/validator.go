package document

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/*.json
var schemaFS embed.FS

// ErrInvalid is the root of every failed validation.
var ErrInvalid = errors.New("document failed validation")

var (
	compiler    *jsonschema.Compiler
	compilerErr error
	compileOnce sync.Once

	schemasMu sync.Mutex
	schemas   = map[string]*jsonschema.Schema{}

	printer = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Source string
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue represents a single validation error from the schema.
type ValidationIssue struct {
	Path    string // Instance location (e.g., "/name", "/status/constraints/0")
	Message string
	Keyword string
}

// Err returns nil for a valid result, otherwise an error wrapping ErrInvalid
// that lists every issue.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	var b strings.Builder
	b.WriteString(printer.Sprintf("%s: %d issue(s)", r.Source, len(r.Issues)))
	for _, is := range r.Issues {
		path := is.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(&b, "\n  %s: %s", path, is.Message)
	}
	return fmt.Errorf("%w: %s", ErrInvalid, b.String())
}

// loadCompiler registers every embedded schema once so cross-file $refs
// resolve.
func loadCompiler() (*jsonschema.Compiler, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		entries, err := fs.ReadDir(schemaFS, "schema")
		if err != nil {
			compilerErr = fmt.Errorf("listing schemas: %w", err)
			return
		}
		for _, e := range entries {
			raw, err := schemaFS.ReadFile("schema/" + e.Name())
			if err != nil {
				compilerErr = fmt.Errorf("reading schema %s: %w", e.Name(), err)
				return
			}
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compilerErr = fmt.Errorf("unmarshaling schema %s: %w", e.Name(), err)
				return
			}
			if err := c.AddResource(e.Name(), doc); err != nil {
				compilerErr = fmt.Errorf("adding schema resource %s: %w", e.Name(), err)
				return
			}
		}
		compiler = c
	})
	return compiler, compilerErr
}

func getSchema(loc string) (*jsonschema.Schema, error) {
	c, err := loadCompiler()
	if err != nil {
		return nil, err
	}
	schemasMu.Lock()
	defer schemasMu.Unlock()
	if s, ok := schemas[loc]; ok {
		return s, nil
	}
	s, err := c.Compile(loc)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", loc, err)
	}
	schemas[loc] = s
	return s, nil
}

// Validate checks a document against the schema for kind. The error return
// is for decoding or schema compilation failures; validation issues are
// returned in the ValidationResult.
func Validate(doc *Document, kind Kind, mode Mode) (*ValidationResult, error) {
	schema, err := getSchema(kind.location(mode))
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	raw, err := doc.Value()
	if err != nil {
		return nil, err
	}

	// Round-trip through JSON so numbers reach the validator as json.Number.
	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("converting %s to JSON: %w", doc.Source, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("preparing JSON for validation: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Source: doc.Source, Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}
	return &ValidationResult{
		Source: doc.Source,
		Issues: extractIssues(ve),
	}, nil
}

// Check validates and folds issues into a single error.
func Check(doc *Document, kind Kind, mode Mode) error {
	res, err := Validate(doc, kind, mode)
	if err != nil {
		return err
	}
	return res.Err()
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	collectValidationIssues(ve, &issues)

	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return deduplicateIssues(issues)
}

func collectValidationIssues(ve *jsonschema.ValidationError, issues *[]ValidationIssue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectValidationIssues(cause, issues)
		}
		return
	}

	path := ""
	if len(ve.InstanceLocation) > 0 {
		path = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	keyword, msg := "", ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
		msg = ve.ErrorKind.LocalizedString(printer)
	}

	// Container keywords only repeat what their causes say.
	switch keyword {
	case "", "oneOf", "allOf", "$ref":
		return
	}

	*issues = append(*issues, ValidationIssue{Path: path, Message: msg, Keyword: keyword})
}

func deduplicateIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[string]bool)
	var result []ValidationIssue
	for _, issue := range issues {
		key := issue.Path + "|" + issue.Keyword + "|" + issue.Message
		if !seen[key] {
			seen[key] = true
			result = append(result, issue)
		}
	}
	return result
}

// normalizeYAML converts YAML-decoded values to JSON-compatible types.
// Non-string mapping keys are formatted as strings and unquoted YAML
// timestamps go back to their date or RFC 3339 text.
func normalizeYAML(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[k] = normalizeYAML(v)
		}
		return m
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, v := range val {
			m[fmt.Sprint(k)] = normalizeYAML(v)
		}
		return m
	case []interface{}:
		a := make([]interface{}, len(val))
		for i, v := range val {
			a[i] = normalizeYAML(v)
		}
		return a
	case time.Time:
		if val.Equal(val.Truncate(24*time.Hour)) && val.Location() == time.UTC {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	default:
		return val
	}
}
