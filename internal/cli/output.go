package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/loader"
	"github.com/presalesly/presalesly/internal/model"
)

// Status tags used by init and doctor output.
const (
	tagOK   = " OK "
	tagSkip = "SKIP"
	tagWarn = "WARN"
	tagFail = "FAIL"
	tagMiss = "MISS"
)

func statusf(w io.Writer, tag, format string, args ...interface{}) {
	fmt.Fprintf(w, "  [%s] %s\n", tag, fmt.Sprintf(format, args...))
}

// printBody pretty-prints a JSON response body. Non-JSON bodies are
// written as they are.
func printBody(w io.Writer, body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		_, err = w.Write(body)
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// printMessage prints the {"message": ...} body of delete and upload
// responses, or the raw body when it has another shape.
func printMessage(w io.Writer, resp *api.Response) error {
	m, err := api.DecodeJSON[api.Message](resp)
	if err != nil || m.Message == "" {
		return printBody(w, resp.Body)
	}
	fmt.Fprintln(w, m.Message)
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printer formats numbers for the given backend language code.
func printer(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return message.NewPrinter(tag)
}

// column is one table column: a header and a dotted path into a record.
type column struct {
	header string
	path   string
}

var listColumns = map[string][]column{
	api.ResourceAccounts: {
		{"ID", "id"}, {"NAME", "name"}, {"INDUSTRY", "industry.description"},
		{"COUNTRY", "country_code"}, {"CITY", "city"},
	},
	api.ResourceOpportunities: {
		{"ID", "id"}, {"NAME", "name"}, {"ACCOUNT", "account.name"},
		{"STAGE", "stage.description"}, {"STATUS", "status"},
		{"AMOUNT", "expected_amount"}, {"CURRENCY", "expected_amount_curr_code"},
		{"CLOSE", "close_date"}, {"SCORE", "ai_score"},
	},
	api.ResourceTasks: {
		{"ID", "id"}, {"DESCRIPTION", "description"}, {"DUE", "due_date"},
		{"PRIORITY", "priority"}, {"STATUS", "status"}, {"OWNER", "owner_id"},
	},
	api.ResourceUsers: {
		{"ID", "id"}, {"EMAIL", "email"}, {"FIRST", "first_name"},
		{"LAST", "last_name"}, {"ROLE", "role_id"},
	},
	api.ResourceAnswers: {
		{"ID", "id"}, {"LANG", "language_code"}, {"QUESTION", "question"},
		{"ACTIVE", "is_active"},
	},
	api.ResourceIndustries: {
		{"ID", "id"}, {"DESCRIPTION", "description"}, {"ACTIVE", "is_active"},
	},
	api.ResourceStages: {
		{"ID", "id"}, {"DESCRIPTION", "description"}, {"STATUS", "opp_status"},
		{"PROBABILITY", "default_probability"}, {"ORDER", "sort_order"},
	},
	api.ResourceTemplates: {
		{"ID", "id"}, {"DESCRIPTION", "description"}, {"ACTIVE", "is_active"},
	},
	api.ResourceTemplateTasks: {
		{"ID", "id"}, {"DESCRIPTION", "description"}, {"OFFSET", "due_date_offset"},
		{"PRIORITY", "priority"}, {"TEMPLATE", "opp_template_id"},
	},
}

// record is a decoded list item.
type record = map[string]interface{}

func printRecords(w io.Writer, resource string, items []record, lang string) error {
	cols, ok := listColumns[resource]
	if !ok {
		cols = []column{{"ID", "id"}}
	}

	tw := newTable(w)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, item := range items {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cell(item, c.path, lang)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// cell renders the value at path. A missing "description" falls back to
// the record's localized descriptions.
func cell(item record, path string, lang string) string {
	v, ok := lookupPath(item, path)
	if (!ok || v == nil || v == "") && strings.HasSuffix(path, "description") {
		if text, found := describe(item, path, lang); found {
			return text
		}
	}
	return formatValue(v)
}

func lookupPath(item record, path string) (interface{}, bool) {
	var cur interface{} = item
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func describe(item record, path, lang string) (string, bool) {
	owner := item
	if i := strings.LastIndex(path, "."); i >= 0 {
		v, ok := lookupPath(item, path[:i])
		if !ok {
			return "", false
		}
		if owner, ok = v.(map[string]interface{}); !ok {
			return "", false
		}
	}
	raw, ok := owner["descriptions"].([]interface{})
	if !ok {
		return "", false
	}
	descs := make([]model.Description, 0, len(raw))
	for _, r := range raw {
		m, ok := r.(map[string]interface{})
		if !ok {
			continue
		}
		code, _ := m["language_code"].(string)
		text, _ := m["description"].(string)
		descs = append(descs, model.Description{LanguageCode: code, Description: text})
	}
	return loader.Describe(descs, lang)
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		if x == "" {
			return "-"
		}
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "yes"
		}
		return "no"
	default:
		out, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(out)
	}
}
