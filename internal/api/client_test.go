package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/presalesly/presalesly/internal/model"
	"github.com/presalesly/presalesly/internal/queryspec"
)

type recorded struct {
	Method      string
	Path        string
	Query       url.Values
	ContentType string
	Body        []byte
}

type fakeBackend struct {
	mu       sync.Mutex
	requests []recorded
	status   map[string]int
	bodies   map[string]string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()
	fb := &fakeBackend{status: map[string]int{}, bodies: map[string]string{}}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	r, err := NewResolver(ResolverOptions{ServerURL: srv.URL})
	require.NoError(t, err)
	return fb, NewClient(r, NewTransport(WithTokenSource(staticToken("tok"))))
}

func (fb *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path
	fb.mu.Lock()
	fb.requests = append(fb.requests, recorded{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		ContentType: r.Header.Get("Content-Type"),
		Body:        body,
	})
	status, ok := fb.status[key]
	resp := fb.bodies[key]
	fb.mu.Unlock()
	if !ok {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp == "" {
		resp = `{}`
	}
	_, _ = w.Write([]byte(resp))
}

func (fb *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	require.NotEmpty(t, fb.requests)
	return fb.requests[len(fb.requests)-1]
}

func TestResource_CRUD(t *testing.T) {
	fb, c := newFakeBackend(t)
	ctx := context.Background()

	_, err := c.Accounts.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, recorded{Method: "GET", Path: "/api/v1/accounts/42", Query: url.Values{}, Body: []byte{}}, fb.last(t))

	_, err = c.Accounts.Create(ctx, map[string]string{"name": "Acme", "country_code": "PT"})
	require.NoError(t, err)
	got := fb.last(t)
	assert.Equal(t, "POST", got.Method)
	assert.Equal(t, "/api/v1/accounts/", got.Path)
	assert.Equal(t, "application/json", got.ContentType)
	assert.JSONEq(t, `{"name":"Acme","country_code":"PT"}`, string(got.Body))

	_, err = c.Users.Update(ctx, 7, map[string]string{"first_name": "Ana"})
	require.NoError(t, err)
	got = fb.last(t)
	assert.Equal(t, "PUT", got.Method)
	assert.Equal(t, "/api/v1/users/7", got.Path)

	_, err = c.Answers.Delete(ctx, 9)
	require.NoError(t, err)
	got = fb.last(t)
	assert.Equal(t, "DELETE", got.Method)
	assert.Equal(t, "/api/v1/answers/9", got.Path)
}

func TestResource_ListQuery(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.bodies["GET /api/v1/opportunities/"] = `{"items":[{"id":1,"name":"Renewal"}],"total":1,"page":1,"size":50}`

	opts := ListOptions{Page: 1, Size: 50, LangCode: "EN"}
	require.NoError(t, opts.SetQuery(
		queryspec.Filters{}.Where("industry.id", queryspec.Equals, 5),
		[]queryspec.SortEntry{{Field: "close_date", Order: queryspec.Descending}},
	))

	resp, err := c.Opportunities.List(context.Background(), opts)
	require.NoError(t, err)

	q := fb.last(t).Query
	assert.Equal(t, `[{"field":"industry_id","operator":"equals","value":5}]`, q.Get("filter"))
	assert.Equal(t, `[{"field":"close_date","order":-1}]`, q.Get("sort"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "50", q.Get("size"))
	assert.Equal(t, "EN", q.Get("lang_code"))

	page, err := DecodePage[model.OpportunityDetails](resp)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Renewal", page.Items[0].Name)
}

func TestListOptions_Values(t *testing.T) {
	v, err := ListOptions{}.Values()
	require.NoError(t, err)
	assert.Empty(t, v)

	v, err = ListOptions{Extra: url.Values{"owner": {"me"}}}.Values()
	require.NoError(t, err)
	assert.Equal(t, "me", v.Get("owner"))

	_, err = ListOptions{Size: 101}.Values()
	assert.Error(t, err)
	_, err = ListOptions{Page: -1}.Values()
	assert.Error(t, err)
}

func TestResource_ListNotFound(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.status["GET /api/v1/industries/"] = http.StatusNotFound

	_, err := c.Industries.List(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestClient_Specializations(t *testing.T) {
	fb, c := newFakeBackend(t)
	ctx := context.Background()
	yes := true

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
		query  url.Values
	}{
		{"open opportunities", func() error { _, err := c.Opportunities.ListOpen(ctx, ListOptions{Size: 10}); return err },
			"GET", "/api/v1/opportunities/open", url.Values{"size": {"10"}}},
		{"user dashboard", func() error { _, err := c.Opportunities.UserDashboard(ctx); return err },
			"GET", "/api/v1/opportunities/dashboard/user", url.Values{}},
		{"admin dashboard", func() error { _, err := c.Opportunities.AdminDashboard(ctx); return err },
			"GET", "/api/v1/opportunities/dashboard/admin", url.Values{}},
		{"dashboard data", func() error { _, err := c.Opportunities.DashboardData(ctx); return err },
			"GET", "/api/v1/opportunities/dashboard/data", url.Values{}},
		{"update score", func() error { _, err := c.Opportunities.UpdateScore(ctx, 5); return err },
			"PUT", "/api/v1/opportunities/5/update_opp_score", url.Values{}},
		{"tasks by opportunity", func() error { _, err := c.Tasks.ByOpportunity(ctx, 3); return err },
			"GET", "/api/v1/tasks/opportunity/3", url.Values{}},
		{"scoped task list", func() error { _, err := c.OpportunityTasks(3).List(ctx, ListOptions{}); return err },
			"GET", "/api/v1/tasks/opportunity/3/", url.Values{}},
		{"template tasks", func() error { _, err := c.TemplateTasks.ByTemplate(ctx, 2); return err },
			"GET", "/api/v1/opp_template_tasks/opp_template/2", url.Values{}},
		{"train", func() error {
			_, err := c.OppScore.Train(ctx, TrainOptions{Algorithm: model.CatBoost, SetAsDefault: &yes}, model.TrainParams{})
			return err
		}, "POST", "/api/v1/opp_score/train", url.Values{"algorithm": {"catboost"}, "set_as_default": {"true"}}},
		{"search", func() error {
			_, err := c.OppScore.Search(ctx, SearchOptions{Scoring: model.ScoreRecall, Iterations: 20}, model.ParamDist{})
			return err
		}, "POST", "/api/v1/opp_score/search", url.Values{"scoring": {"recall"}, "n_iterations": {"20"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.call())
			got := fb.last(t)
			assert.Equal(t, tt.method, got.Method)
			assert.Equal(t, tt.path, got.Path)
			assert.Equal(t, tt.query, got.Query)
		})
	}
}

func TestOppScore_RejectsUnknownAlgorithm(t *testing.T) {
	_, c := newFakeBackend(t)
	_, err := c.OppScore.Train(context.Background(), TrainOptions{Algorithm: "xgboost"}, model.TrainParams{})
	assert.ErrorContains(t, err, "unknown algorithm")
}

func TestAnswers_Recommend(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.bodies["POST /api/v1/answers/recommend"] = `[{"answer":{"id":1,"question":"q","answer":"a","language_code":"EN","owner_id":1,"is_active":true},"score":0.9}]`

	resp, err := c.Answers.Recommend(context.Background(), model.Question{Query: "pricing?", LanguageCode: "EN"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"query":"pricing?","language_code":"EN"}`, string(fb.last(t).Body))

	recs, err := DecodeJSON[[]model.AnswerRecommendation](resp)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.9, recs[0].Score, 1e-9)
}

func TestUpload(t *testing.T) {
	fb, c := newFakeBackend(t)
	_, err := c.Accounts.Upload(context.Background(), "/tmp/accounts.csv", strings.NewReader("name,country_code\nAcme,PT\n"))
	require.NoError(t, err)

	got := fb.last(t)
	assert.Equal(t, "/api/v1/accounts/upload", got.Path)
	req, err := http.NewRequest(http.MethodPost, "/", strings.NewReader(string(got.Body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", got.ContentType)
	require.NoError(t, req.ParseMultipartForm(1<<20))
	fh := req.MultipartForm.File["upload_file"]
	require.Len(t, fh, 1)
	assert.Equal(t, "accounts.csv", fh[0].Filename)
}

func TestAuth_Login(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.bodies["POST /api/v1/auth/login"] = `{"access_token":"abc","token_type":"bearer"}`

	resp, err := c.Auth.Login(context.Background(), "ana@example.com", "s3cret")
	require.NoError(t, err)
	got := fb.last(t)
	assert.Equal(t, "application/x-www-form-urlencoded", got.ContentType)
	form, err := url.ParseQuery(string(got.Body))
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", form.Get("username"))
	assert.Equal(t, "s3cret", form.Get("password"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(resp.Body, &body))
	assert.Equal(t, "abc", body["access_token"])
}

func TestBulkResource_DeleteAll(t *testing.T) {
	fb, c := newFakeBackend(t)
	fb.status["DELETE /api/v1/opp_stage/3"] = http.StatusNotFound

	err := c.Stages.DeleteAll(context.Background(), []int{1, 2, 4})
	require.NoError(t, err)

	err = c.Stages.DeleteAll(context.Background(), []int{1, 3})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "opp_stage 3")

	fb.mu.Lock()
	defer fb.mu.Unlock()
	deletes := 0
	for _, r := range fb.requests {
		if r.Method == http.MethodDelete {
			deletes++
		}
	}
	assert.GreaterOrEqual(t, deletes, 4)
}

func TestClient_Resource(t *testing.T) {
	_, c := newFakeBackend(t)
	r, err := c.Resource("opp_templates")
	require.NoError(t, err)
	assert.Equal(t, "opp_templates", r.Name())
	assert.True(t, strings.HasSuffix(r.URL(), "/api/v1/opp_templates/"))

	_, err = c.Resource("opp_score")
	assert.Error(t, err)
}

func TestClient_ResourceIsShared(t *testing.T) {
	_, c := newFakeBackend(t)
	shared := map[string]*Resource{
		ResourceAccounts:      c.Accounts.Resource,
		ResourceOpportunities: c.Opportunities.Resource,
		ResourceTasks:         c.Tasks.Resource,
		ResourceUsers:         c.Users,
		ResourceAnswers:       c.Answers.Resource,
		ResourceIndustries:    c.Industries.Resource,
		ResourceStages:        c.Stages.Resource,
		ResourceTemplates:     c.Templates.Resource,
		ResourceTemplateTasks: c.TemplateTasks.Resource,
	}
	require.Len(t, shared, len(CRUDResources))

	for _, name := range CRUDResources {
		r, err := c.Resource(name)
		require.NoError(t, err, name)
		assert.Same(t, shared[name], r, name)
	}
}
