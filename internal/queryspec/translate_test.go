package queryspec

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFilterSpec(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    string
	}{
		{
			name:    "empty model",
			filters: nil,
			want:    `[]`,
		},
		{
			name: "all values nil",
			filters: Filters{}.
				Where("name", Contains, nil).
				WhereAll("stage_id", Match(Equals, nil), Match(NotEquals, nil)).
				WhereAny("status", Match(Equals, nil)),
			want: `[]`,
		},
		{
			name:    "empty groups emit nothing",
			filters: Filters{}.WhereAll("name").WhereAny("status"),
			want:    `[]`,
		},
		{
			name: "empty group beside a constraint",
			filters: Filters{}.
				WhereAny("status").
				Where("name", Contains, "acme"),
			want: `[{"field":"name","operator":"contains","value":"acme"}]`,
		},
		{
			name:    "aliased field is not split",
			filters: Filters{}.Where("industry.id", Equals, 5),
			want:    `[{"field":"industry_id","operator":"equals","value":5}]`,
		},
		{
			name:    "dotted field splits into model",
			filters: Filters{}.Where("owner.email", StartsWith, "ana"),
			want:    `[{"model":"owner","field":"email","operator":"startsWith","value":"ana"}]`,
		},
		{
			name:    "split on first dot only",
			filters: Filters{}.Where("account.industry.name", Equals, "Retail"),
			want:    `[{"model":"account","field":"industry.name","operator":"equals","value":"Retail"}]`,
		},
		{
			name: "or group nests",
			filters: Filters{}.WhereAny("name",
				Match(Contains, "acme"),
				Match(Contains, "corp"),
			),
			want: `[{"or":[{"field":"name","operator":"contains","value":"acme"},{"field":"name","operator":"contains","value":"corp"}]}]`,
		},
		{
			name: "and group flattens and drops nil",
			filters: Filters{}.WhereAll("expected_amount",
				Match(GreaterEq, 1000),
				Match(LessThan, nil),
				Match(LessEq, 5000),
			),
			want: `[{"field":"expected_amount","operator":"gte","value":1000},{"field":"expected_amount","operator":"lte","value":5000}]`,
		},
		{
			name: "or group drops nil members",
			filters: Filters{}.WhereAny("status",
				Match(Equals, nil),
				Match(Equals, "Won"),
			),
			want: `[{"or":[{"field":"status","operator":"equals","value":"Won"}]}]`,
		},
		{
			name: "entry order is kept",
			filters: Filters{}.
				Where("name", Contains, "a").
				WhereAny("status", Match(Equals, "Open"), Match(Equals, "Won")).
				Where("industry.id", In, []int{1, 2}),
			want: `[{"field":"name","operator":"contains","value":"a"},` +
				`{"or":[{"field":"status","operator":"equals","value":"Open"},{"field":"status","operator":"equals","value":"Won"}]},` +
				`{"field":"industry_id","operator":"in","value":[1,2]}]`,
		},
		{
			name:    "symbolic operator",
			filters: Filters{}.Where("probability", SymGte, 0.5),
			want:    `[{"field":"probability","operator":">=","value":0.5}]`,
		},
		{
			name:    "false and zero are values",
			filters: Filters{}.Where("is_active", Equals, false).Where("sort_order", Equals, 0),
			want:    `[{"field":"is_active","operator":"equals","value":false},{"field":"sort_order","operator":"equals","value":0}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateFilterSpec(tt.filters)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, got)
			assert.Equal(t, tt.want, got, "key order and entry order must match exactly")
		})
	}
}

func TestCreateFilterSpec_Errors(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
	}{
		{"unknown operator", Filters{}.Where("name", Operator("like"), "x")},
		{"empty field", Filters{}.Where("", Equals, 1)},
		{"leading dot", Filters{}.Where(".id", Equals, 1)},
		{"trailing dot", Filters{}.Where("industry.", Equals, 1)},
		{"missing filter", Filters{{Field: "name"}}},
		{"bad operator inside or", Filters{}.WhereAny("name", Match(Contains, "a"), Match("regex", "b"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateFilterSpec(tt.filters)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFilter)
			var fe *FieldError
			assert.True(t, errors.As(err, &fe), "want *FieldError, got %T", err)
		})
	}
}

func TestCreateFilterSpec_EmptyGroupDocument(t *testing.T) {
	filters, err := ParseFilters([]byte(`{"name":{"operator":"and","constraints":[]},"status":{"operator":"or","constraints":[]}}`))
	require.NoError(t, err)

	got, err := CreateFilterSpec(filters)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestCreateFilterSpec_NilOperatorIsIgnoredWhenValueNil(t *testing.T) {
	got, err := CreateFilterSpec(Filters{}.Where("name", Operator("bogus"), nil))
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestCreateSortSpec(t *testing.T) {
	tests := []struct {
		name  string
		sorts []SortEntry
		want  string
	}{
		{"empty", nil, `[]`},
		{
			name: "order preserved and alias applied",
			sorts: []SortEntry{
				{Field: "name", Order: Ascending},
				{Field: "industry.id", Order: Descending},
			},
			want: `[{"field":"name","order":1},{"field":"industry_id","order":-1}]`,
		},
		{
			name:  "dotted field",
			sorts: []SortEntry{{Field: "stage.sort_order", Order: Ascending}},
			want:  `[{"model":"stage","field":"sort_order","order":1}]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CreateSortSpec(tt.sorts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreateSortSpec_Errors(t *testing.T) {
	for _, s := range []SortEntry{
		{Field: "name", Order: 0},
		{Field: "name", Order: 2},
		{Field: "", Order: Ascending},
		{Field: "a.", Order: Descending},
	} {
		_, err := CreateSortSpec([]SortEntry{s})
		assert.ErrorIs(t, err, ErrInvalidSort, "entry %+v", s)
	}
}

func TestCreateSortSpec_DoesNotMutateInput(t *testing.T) {
	in := []SortEntry{{Field: "industry.id", Order: Descending}}
	_, err := CreateSortSpec(in)
	require.NoError(t, err)
	assert.Equal(t, "industry.id", in[0].Field)
}

func TestTranslator_CustomAliases(t *testing.T) {
	aliases := Aliases{"owner": "owner.full_name"}
	tr := NewTranslator(aliases)
	aliases["owner"] = "changed"

	got, err := tr.CreateFilterSpec(Filters{}.Where("owner", Contains, "ana"))
	require.NoError(t, err)
	assert.Equal(t, `[{"model":"owner","field":"full_name","operator":"contains","value":"ana"}]`, got)

	var zero Translator
	got, err = zero.CreateFilterSpec(Filters{}.Where("industry.id", Equals, 5))
	require.NoError(t, err)
	assert.Equal(t, `[{"model":"industry","field":"id","operator":"equals","value":5}]`, got)
}

func TestRoundTrip(t *testing.T) {
	filters := Filters{}.
		Where("industry.id", Equals, 5).
		WhereAny("name", Match(Contains, "acme"), Match(Contains, "corp")).
		Where("owner.email", EndsWith, "@example.com")

	first, err := CreateFilterSpec(filters)
	require.NoError(t, err)

	var decoded []WireFilter
	require.NoError(t, json.Unmarshal([]byte(first), &decoded))
	want := []WireFilter{
		{Field: "industry_id", Operator: Equals, Value: float64(5)},
		{Or: []WireFilter{
			{Field: "name", Operator: Contains, Value: "acme"},
			{Field: "name", Operator: Contains, Value: "corp"},
		}},
		{Model: "owner", Field: "email", Operator: EndsWith, Value: "@example.com"},
	}
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Errorf("decoded filters mismatch (-want +got):\n%s", diff)
	}

	second, err := json.Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, first, string(second))

	sorts := []SortEntry{{Field: "name", Order: Ascending}, {Field: "stage.sort_order", Order: Descending}}
	s1, err := CreateSortSpec(sorts)
	require.NoError(t, err)
	var ws []WireSort
	require.NoError(t, json.Unmarshal([]byte(s1), &ws))
	if diff := cmp.Diff([]WireSort{
		{Field: "name", Order: Ascending},
		{Model: "stage", Field: "sort_order", Order: Descending},
	}, ws); diff != "" {
		t.Errorf("decoded sorts mismatch (-want +got):\n%s", diff)
	}
	s2, err := json.Marshal(ws)
	require.NoError(t, err)
	assert.Equal(t, s1, string(s2))
}

func TestWireFilter_EmptyOr(t *testing.T) {
	var f WireFilter
	require.NoError(t, json.Unmarshal([]byte(`{"or":[]}`), &f))
	assert.True(t, f.IsDisjunction())
	b, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"or":[]}`, string(b))
}

func TestOperators(t *testing.T) {
	for _, op := range ValidOperators() {
		assert.True(t, op.IsValid(), op)
	}
	assert.Len(t, ValidOperators(), 23)
	assert.False(t, Operator("and").IsValid())
	_, err := ParseOperator("like")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}
