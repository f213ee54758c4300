package document

import "fmt"

// Kind names an embedded schema.
type Kind string

const (
	KindFilters         Kind = "filters"
	KindSorts           Kind = "sorts"
	KindAccount         Kind = "account"
	KindOpportunity     Kind = "opportunity"
	KindTask            Kind = "task"
	KindUser            Kind = "user"
	KindAnswer          Kind = "answer"
	KindIndustry        Kind = "industry"
	KindOppStage        Kind = "opp_stage"
	KindOppTemplate     Kind = "opp_template"
	KindOppTemplateTask Kind = "opp_template_task"
	KindScoreParams     Kind = "score_params"
)

// Mode selects how a record payload is checked. Create enforces required
// fields; Update only checks the fields that are present.
type Mode int

const (
	Create Mode = iota
	Update
)

// resourceKinds maps API resource names to their payload schema.
var resourceKinds = map[string]Kind{
	"accounts":           KindAccount,
	"opportunities":      KindOpportunity,
	"tasks":              KindTask,
	"users":              KindUser,
	"answers":            KindAnswer,
	"industries":         KindIndustry,
	"opp_stage":          KindOppStage,
	"opp_templates":      KindOppTemplate,
	"opp_template_tasks": KindOppTemplateTask,
}

// KindForResource returns the payload schema kind for an API resource name.
func KindForResource(resource string) (Kind, error) {
	k, ok := resourceKinds[resource]
	if !ok {
		return "", fmt.Errorf("no payload schema for resource %q", resource)
	}
	return k, nil
}

func (k Kind) file() string {
	if k == KindIndustry {
		return "described.schema.json"
	}
	return string(k) + ".schema.json"
}

// location is the schema URL compiled for the kind and mode. Update payloads
// are checked against the patch definition, which has no required fields.
func (k Kind) location(m Mode) string {
	if m == Update && k.isRecord() {
		return k.file() + "#/$defs/patch"
	}
	return k.file()
}

func (k Kind) isRecord() bool {
	switch k {
	case KindFilters, KindSorts, KindScoreParams:
		return false
	}
	return true
}
