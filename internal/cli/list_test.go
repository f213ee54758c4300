package cli

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presalesly/presalesly/internal/api"
	"github.com/presalesly/presalesly/internal/session"
)

const accountsPage = `{"items":[
  {"id":1,"name":"Acme","country_code":"DE","city":"Berlin","industry":{"id":3,"description":"Retail"}},
  {"id":2,"name":"Globex","country_code":"US","city":null,"industry":null}
],"total":2,"page":1,"size":50}`

func TestList_SendsQueryAndPrintsTable(t *testing.T) {
	b := setup(t)
	signIn(t, "tok")
	b.on(http.MethodGet, "/api/v1/accounts/", http.StatusOK, accountsPage)

	out, err := execute(t, "", "list", "accounts",
		"--filter", "industry.id:equals:3", "--sort", "-name", "--lang", "de-DE", "--size", "20")
	require.NoError(t, err)

	reqs := b.recorded()
	require.Len(t, reqs, 1)
	q := reqs[0].Query
	assert.JSONEq(t, `[{"field":"industry_id","operator":"equals","value":3}]`, q.Get("filter"))
	assert.JSONEq(t, `[{"field":"name","order":-1}]`, q.Get("sort"))
	assert.Equal(t, "DE", q.Get("lang_code"))
	assert.Equal(t, "20", q.Get("size"))
	assert.Equal(t, "Bearer tok", reqs[0].Auth)

	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Retail")
	assert.Contains(t, out, "Page 1 of 1, 2 accounts in total")
}

func TestList_PageSizeFromPreferences(t *testing.T) {
	b := setup(t)
	signIn(t, "tok")
	writePreferences(t, "output_format: json\npage_size: 25\n")
	b.on(http.MethodGet, "/api/v1/accounts/", http.StatusOK, accountsPage)

	out, err := execute(t, "", "list", "accounts")
	require.NoError(t, err)

	reqs := b.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, "25", reqs[0].Query.Get("size"))
	assert.Contains(t, out, `"total": 2`)
}

func TestList_OpenOpportunities(t *testing.T) {
	b := setup(t)
	signIn(t, "tok")
	b.on(http.MethodGet, "/api/v1/opportunities/open", http.StatusOK,
		`{"items":[{"id":9,"name":"Big deal","status":"Open","expected_amount":1500000,"stage":{"id":1,"description":"Qualify"}}],"total":1,"page":1,"size":50}`)

	out, err := execute(t, "", "list", "opportunities", "--open")
	require.NoError(t, err)
	assert.Contains(t, out, "Big deal")
	assert.Contains(t, out, "1500000")
	assert.Contains(t, out, "Qualify")

	_, err = execute(t, "", "list", "accounts", "--open")
	require.Error(t, err)
}

func TestList_NotFoundIsEmpty(t *testing.T) {
	b := setup(t)
	signIn(t, "tok")
	b.on(http.MethodGet, "/api/v1/tasks/", http.StatusNotFound, `{"detail":"Not found"}`)

	out, err := execute(t, "", "list", "tasks")
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")
}

func TestList_RequiresSession(t *testing.T) {
	b := setup(t)

	_, err := execute(t, "", "list", "accounts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrNotAuthenticated))
	assert.Empty(t, b.recorded())
}

func TestList_UnauthorizedClearsSession(t *testing.T) {
	b := setup(t)
	store := signIn(t, "stale")
	b.on(http.MethodGet, "/api/v1/accounts/", http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`)

	_, err := execute(t, "", "list", "accounts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, api.ErrSessionExpired))
	assert.Contains(t, err.Error(), "presalesly login")

	rec, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestList_ServerErrorPropagates(t *testing.T) {
	b := setup(t)
	signIn(t, "tok")
	b.on(http.MethodGet, "/api/v1/accounts/", http.StatusUnprocessableEntity,
		`{"detail":[{"loc":["query","filter"],"msg":"invalid filter"}]}`)

	_, err := execute(t, "", "list", "accounts")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, api.StatusCode(err))
}

func TestList_UnknownResource(t *testing.T) {
	setup(t)
	signIn(t, "tok")
	_, err := execute(t, "", "list", "widgets")
	require.Error(t, err)
}
