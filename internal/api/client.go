package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/presalesly/presalesly/internal/model"
)

// Resource names as routed by the backend.
const (
	ResourceAccounts      = "accounts"
	ResourceOpportunities = "opportunities"
	ResourceTasks         = "tasks"
	ResourceUsers         = "users"
	ResourceAnswers       = "answers"
	ResourceIndustries    = "industries"
	ResourceStages        = "opp_stage"
	ResourceTemplates     = "opp_templates"
	ResourceTemplateTasks = "opp_template_tasks"
	ResourceOppScore      = "opp_score"
	ResourceAuth          = "auth"
)

// CRUDResources lists the collections that support the five CRUD verbs.
var CRUDResources = []string{
	ResourceAccounts, ResourceOpportunities, ResourceTasks, ResourceUsers,
	ResourceAnswers, ResourceIndustries, ResourceStages, ResourceTemplates,
	ResourceTemplateTasks,
}

// uploadField is the multipart field the backend reads uploads from.
const uploadField = "upload_file"

// deleteConcurrency bounds DeleteAll fan-out.
const deleteConcurrency = 8

// Client holds one specialization per business entity, all sharing a
// Transport.
type Client struct {
	resolver  *Resolver
	transport *Transport

	Accounts      *Accounts
	Opportunities *Opportunities
	Tasks         *Tasks
	Users         *Resource
	Answers       *Answers
	Industries    *BulkResource
	Stages        *BulkResource
	Templates     *BulkResource
	TemplateTasks *TemplateTasks
	OppScore      *OppScore
	Auth          *Auth
}

// NewClient builds every specialization on r and t.
func NewClient(r *Resolver, t *Transport) *Client {
	res := func(name string) *Resource { return NewResource(name, r, t) }
	return &Client{
		resolver:      r,
		transport:     t,
		Accounts:      &Accounts{res(ResourceAccounts)},
		Opportunities: &Opportunities{res(ResourceOpportunities)},
		Tasks:         &Tasks{res(ResourceTasks)},
		Users:         res(ResourceUsers),
		Answers:       &Answers{res(ResourceAnswers)},
		Industries:    &BulkResource{res(ResourceIndustries)},
		Stages:        &BulkResource{res(ResourceStages)},
		Templates:     &BulkResource{res(ResourceTemplates)},
		TemplateTasks: &TemplateTasks{res(ResourceTemplateTasks)},
		OppScore:      &OppScore{res(ResourceOppScore)},
		Auth:          &Auth{res(ResourceAuth)},
	}
}

// Resource returns the shared CRUD resource for name, or an error when name
// is not a CRUD collection.
func (c *Client) Resource(name string) (*Resource, error) {
	switch name {
	case ResourceAccounts:
		return c.Accounts.Resource, nil
	case ResourceOpportunities:
		return c.Opportunities.Resource, nil
	case ResourceTasks:
		return c.Tasks.Resource, nil
	case ResourceUsers:
		return c.Users, nil
	case ResourceAnswers:
		return c.Answers.Resource, nil
	case ResourceIndustries:
		return c.Industries.Resource, nil
	case ResourceStages:
		return c.Stages.Resource, nil
	case ResourceTemplates:
		return c.Templates.Resource, nil
	case ResourceTemplateTasks:
		return c.TemplateTasks.Resource, nil
	}
	return nil, fmt.Errorf("unknown resource %q", name)
}

// OpportunityTasks is the task collection scoped to one opportunity.
func (c *Client) OpportunityTasks(opportunityID int) *Resource {
	return NewResource(fmt.Sprintf("%s/opportunity/%d", ResourceTasks, opportunityID), c.resolver, c.transport)
}

// Accounts adds bulk upload to the account collection.
type Accounts struct{ *Resource }

// Upload sends a CSV file of accounts.
func (a *Accounts) Upload(ctx context.Context, filename string, data io.Reader) (*Response, error) {
	return upload(ctx, a.Resource, filename, data)
}

// Opportunities adds open listing, upload, dashboards and rescoring.
type Opportunities struct{ *Resource }

// ListOpen lists opportunities whose status is Open.
func (o *Opportunities) ListOpen(ctx context.Context, opts ListOptions) (*Response, error) {
	return o.list(ctx, "open", opts)
}

// Upload sends a CSV file of opportunities.
func (o *Opportunities) Upload(ctx context.Context, filename string, data io.Reader) (*Response, error) {
	return upload(ctx, o.Resource, filename, data)
}

// UserDashboard fetches the signed-in user's pipeline figures.
func (o *Opportunities) UserDashboard(ctx context.Context) (*Response, error) {
	return o.do(ctx, http.MethodGet, "dashboard/user", nil, nil)
}

// AdminDashboard fetches the pipeline figures across all users.
func (o *Opportunities) AdminDashboard(ctx context.Context) (*Response, error) {
	return o.do(ctx, http.MethodGet, "dashboard/admin", nil, nil)
}

// DashboardData fetches the raw records behind the dashboard figures.
func (o *Opportunities) DashboardData(ctx context.Context) (*Response, error) {
	return o.do(ctx, http.MethodGet, "dashboard/data", nil, nil)
}

// UpdateScore asks the backend to recompute the AI score of one opportunity.
func (o *Opportunities) UpdateScore(ctx context.Context, id int) (*Response, error) {
	return o.do(ctx, http.MethodPut, itoa(id)+"/update_opp_score", nil, nil)
}

// Tasks adds lookup by parent opportunity.
type Tasks struct{ *Resource }

// ByOpportunity lists the tasks of one opportunity.
func (t *Tasks) ByOpportunity(ctx context.Context, opportunityID int) (*Response, error) {
	return t.do(ctx, http.MethodGet, "opportunity/"+itoa(opportunityID), nil, nil)
}

// Answers adds recommendations to the answers library.
type Answers struct{ *Resource }

// Recommend returns library answers ranked against q.
func (a *Answers) Recommend(ctx context.Context, q model.Question) (*Response, error) {
	return a.do(ctx, http.MethodPost, "recommend", nil, q)
}

// BulkResource adds concurrent deletion, used by the admin lists.
type BulkResource struct{ *Resource }

// DeleteAll deletes every id concurrently and returns the first failure.
func (b *BulkResource) DeleteAll(ctx context.Context, ids []int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			if _, err := b.Delete(ctx, id); err != nil {
				return fmt.Errorf("deleting %s %d: %w", b.name, id, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// TemplateTasks adds lookup by template.
type TemplateTasks struct{ *Resource }

// ByTemplate lists the tasks of one opportunity template.
func (t *TemplateTasks) ByTemplate(ctx context.Context, templateID int) (*Response, error) {
	return t.do(ctx, http.MethodGet, "opp_template/"+itoa(templateID), nil, nil)
}

// OppScore drives the opportunity scoring model. It has no CRUD verbs.
type OppScore struct{ r *Resource }

// Train fits the scoring model with params.
func (s *OppScore) Train(ctx context.Context, opts TrainOptions, params model.TrainParams) (*Response, error) {
	q, err := opts.Values()
	if err != nil {
		return nil, err
	}
	return s.r.do(ctx, http.MethodPost, "train", q, params)
}

// Search runs a randomized hyperparameter search within dist.
func (s *OppScore) Search(ctx context.Context, opts SearchOptions, dist model.ParamDist) (*Response, error) {
	q, err := opts.Values()
	if err != nil {
		return nil, err
	}
	return s.r.do(ctx, http.MethodPost, "search", q, dist)
}

// Auth exchanges credentials for an access token.
type Auth struct{ r *Resource }

// Login posts form-encoded credentials without a bearer token.
func (a *Auth) Login(ctx context.Context, username, password string) (*Response, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	return a.r.transport.Do(ctx, Request{
		Method:      http.MethodPost,
		URL:         a.r.resolver.ItemURL(a.r.name, "login"),
		Body:        bytes.NewBufferString(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
		Anonymous:   true,
	})
}

func upload(ctx context.Context, r *Resource, filename string, data io.Reader) (*Response, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(uploadField, filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("creating upload part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing upload body: %w", err)
	}
	return r.send(ctx, http.MethodPost, "upload", nil, &buf, mw.FormDataContentType())
}
