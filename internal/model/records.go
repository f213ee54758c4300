package model

import "strings"

// Page is one page of a list response.
type Page[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// Pages returns the number of pages needed for Total items.
func (p Page[T]) Pages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Description is a localized label.
type Description struct {
	LanguageCode string `json:"language_code,omitempty"`
	Description  string `json:"description"`
}

// UserSummary is the short user form embedded in other records.
type UserSummary struct {
	ID         int     `json:"id"`
	Email      string  `json:"email"`
	FirstName  *string `json:"first_name,omitempty"`
	LastName   *string `json:"last_name,omitempty"`
	FullName   *string `json:"full_name,omitempty"`
	EmployeeID *string `json:"employee_id,omitempty"`
}

// DisplayName returns the full name, or the email when no name is set.
func (u UserSummary) DisplayName() string {
	if u.FullName != nil && strings.TrimSpace(*u.FullName) != "" {
		return *u.FullName
	}
	var parts []string
	for _, p := range []*string{u.FirstName, u.LastName} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}
	return u.Email
}

// UserDetail is the signed-in user as stored in the session record.
type UserDetail struct {
	UserSummary
	RoleID       string `json:"role_id"`
	LanguageCode string `json:"language_code,omitempty"`
}

// User is a user record as created or updated.
type User struct {
	ID           int     `json:"id,omitempty"`
	Email        string  `json:"email"`
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	FullName     *string `json:"full_name,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	LanguageCode *string `json:"language_code,omitempty"`
	RoleID       string  `json:"role_id"`
	Password     string  `json:"password,omitempty"`
}

// IndustrySummary is the short industry form embedded in accounts.
type IndustrySummary struct {
	ID          int    `json:"id"`
	Description string `json:"description,omitempty"`
}

// Industry is an account classification with localized descriptions.
type Industry struct {
	ID           int           `json:"id,omitempty"`
	ExternalID   *string       `json:"external_id,omitempty"`
	IsActive     *bool         `json:"is_active,omitempty"`
	Descriptions []Description `json:"descriptions"`
	Description  string        `json:"description,omitempty"`
}

// AccountSummary is the short account form embedded in opportunities.
type AccountSummary struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Account is a customer organization.
type Account struct {
	ID                    int              `json:"id,omitempty"`
	ExternalID            *string          `json:"external_id,omitempty"`
	SourceURL             *string          `json:"source_url,omitempty"`
	Name                  string           `json:"name"`
	AnnualRevenue         *float64         `json:"annual_revenue,omitempty"`
	AnnualRevenueCurrCode *string          `json:"annual_revenue_curr_code,omitempty"`
	NumberOfEmployees     *int             `json:"number_of_employees,omitempty"`
	CountryCode           string           `json:"country_code"`
	Street                *string          `json:"street,omitempty"`
	AddressLine2          *string          `json:"address_line_2,omitempty"`
	AddressLine3          *string          `json:"address_line_3,omitempty"`
	City                  *string          `json:"city,omitempty"`
	State                 *string          `json:"state,omitempty"`
	PostalCode            *string          `json:"postal_code,omitempty"`
	Fax                   *string          `json:"fax,omitempty"`
	Email                 *string          `json:"email,omitempty"`
	Phone                 *string          `json:"phone,omitempty"`
	Website               *string          `json:"website,omitempty"`
	IsActive              *bool            `json:"is_active,omitempty"`
	IndustryID            *int             `json:"industry_id,omitempty"`
	Industry              *IndustrySummary `json:"industry,omitempty"`
}

// OppStageSummary is the short stage form embedded in opportunities.
type OppStageSummary struct {
	ID          int    `json:"id"`
	Description string `json:"description,omitempty"`
}

// OppStage is a step of the sales pipeline.
type OppStage struct {
	ID                 int           `json:"id,omitempty"`
	ExternalID         *string       `json:"external_id,omitempty"`
	DefaultProbability float64       `json:"default_probability"`
	SortOrder          int           `json:"sort_order"`
	OppStatus          OppStatus     `json:"opp_status"`
	IsActive           *bool         `json:"is_active,omitempty"`
	Descriptions       []Description `json:"descriptions"`
	Description        string        `json:"description,omitempty"`
}

// OppTemplateTask is a task generated from a template when an
// opportunity is created with it.
type OppTemplateTask struct {
	ID            int       `json:"id,omitempty"`
	Description   string    `json:"description"`
	DueDateOffset int       `json:"due_date_offset"`
	Priority      *Priority `json:"priority,omitempty"`
	IsRequired    *bool     `json:"is_required,omitempty"`
	OppTemplateID int       `json:"opp_template_id"`
}

// OppTemplate groups template tasks.
type OppTemplate struct {
	ID               int               `json:"id,omitempty"`
	Description      string            `json:"description"`
	IsActive         *bool             `json:"is_active,omitempty"`
	OppTemplateTasks []OppTemplateTask `json:"opp_template_tasks,omitempty"`
}

// Opportunity is the editable form of a sales opportunity.
type Opportunity struct {
	ID                     int             `json:"id,omitempty"`
	ExternalID             *string         `json:"external_id,omitempty"`
	Name                   string          `json:"name"`
	ExpectedAmount         float64         `json:"expected_amount"`
	ExpectedAmountCurrCode string          `json:"expected_amount_curr_code"`
	StartDate              string          `json:"start_date"`
	CloseDate              string          `json:"close_date"`
	Probability            float64         `json:"probability"`
	OwnerID                int             `json:"owner_id"`
	AccountID              int             `json:"account_id"`
	StageID                int             `json:"stage_id"`
	OppTemplateID          *int            `json:"opp_template_id,omitempty"`
	Owner                  *UserSummary    `json:"owner,omitempty"`
	Account                *AccountSummary `json:"account,omitempty"`
}

// OpportunityDetails is the read form of an opportunity, including values
// the backend derives.
type OpportunityDetails struct {
	Opportunity
	Stage               *OppStageSummary `json:"stage,omitempty"`
	Status              OppStatus        `json:"status"`
	AIScore             *int             `json:"ai_score,omitempty"`
	WeightedAmount      float64          `json:"weighted_amount"`
	Age                 int              `json:"age"`
	DaysRemaining       int              `json:"days_remaining"`
	CloseMonth          int              `json:"close_month"`
	CloseQuarter        int              `json:"close_quarter"`
	CloseYear           int              `json:"close_year"`
	NotStartedTaskCount int              `json:"not_started_task_count"`
	InProgressTaskCount int              `json:"in_progress_task_count"`
	CompletedTaskCount  int              `json:"completed_task_count"`
}

// ProbabilityPercent returns Probability scaled to 0..100.
func (o Opportunity) ProbabilityPercent() float64 {
	return o.Probability * 100
}

// Task is a to-do attached to a parent record, usually an opportunity.
type Task struct {
	ID           int        `json:"id,omitempty"`
	Description  string     `json:"description"`
	DueDate      string     `json:"due_date"`
	OwnerID      int        `json:"owner_id"`
	Priority     Priority   `json:"priority,omitempty"`
	CompletedOn  *string    `json:"completed_on,omitempty"`
	Status       TaskStatus `json:"status,omitempty"`
	ParentTypeID string     `json:"parent_type_id"`
	ParentID     int        `json:"parent_id"`
}

// Answer is an entry of the answers library.
type Answer struct {
	ID           int    `json:"id,omitempty"`
	LanguageCode string `json:"language_code"`
	Question     string `json:"question"`
	Answer       string `json:"answer"`
	OwnerID      int    `json:"owner_id"`
	IsActive     bool   `json:"is_active"`
}

// Question is a free-text query for answer recommendations.
type Question struct {
	Query        string `json:"query"`
	LanguageCode string `json:"language_code,omitempty"`
}

// AnswerRecommendation is a library answer ranked by similarity.
type AnswerRecommendation struct {
	Answer Answer  `json:"answer"`
	Score  float64 `json:"score"`
}

// TrainParams are hyperparameters for training the scoring model. Unset
// values use the backend defaults.
type TrainParams struct {
	NEstimators   *int     `json:"n_estimators,omitempty" yaml:"n_estimators"`
	LearningRate  *float64 `json:"learning_rate,omitempty" yaml:"learning_rate"`
	MaxDepth      *int     `json:"max_depth,omitempty" yaml:"max_depth"`
	RegLambda     *int     `json:"reg_lambda,omitempty" yaml:"reg_lambda"`
	NumLeaves     *int     `json:"num_leaves,omitempty" yaml:"num_leaves"`
	MinDataInLeaf *int     `json:"min_data_in_leaf,omitempty" yaml:"min_data_in_leaf"`
}

// ParamDist bounds a randomized hyperparameter search.
type ParamDist struct {
	NEstimatorsLower   *int     `json:"n_estimators_lower,omitempty" yaml:"n_estimators_lower"`
	NEstimatorsUpper   *int     `json:"n_estimators_upper,omitempty" yaml:"n_estimators_upper"`
	LearningRateLower  *float64 `json:"learning_rate_lower,omitempty" yaml:"learning_rate_lower"`
	LearningRateUpper  *float64 `json:"learning_rate_upper,omitempty" yaml:"learning_rate_upper"`
	MaxDepthLower      *int     `json:"max_depth_lower,omitempty" yaml:"max_depth_lower"`
	MaxDepthUpper      *int     `json:"max_depth_upper,omitempty" yaml:"max_depth_upper"`
	RegLambdaLower     *int     `json:"reg_lambda_lower,omitempty" yaml:"reg_lambda_lower"`
	RegLambdaUpper     *int     `json:"reg_lambda_upper,omitempty" yaml:"reg_lambda_upper"`
	NumLeavesLower     *int     `json:"num_leaves_lower,omitempty" yaml:"num_leaves_lower"`
	NumLeavesUpper     *int     `json:"num_leaves_upper,omitempty" yaml:"num_leaves_upper"`
	MinDataInLeafLower *int     `json:"min_data_in_leaf_lower,omitempty" yaml:"min_data_in_leaf_lower"`
	MinDataInLeafUpper *int     `json:"min_data_in_leaf_upper,omitempty" yaml:"min_data_in_leaf_upper"`
}

// TrainResult holds the evaluation metrics of a trained model.
type TrainResult struct {
	Accuracy  float64 `json:"accuracy"`
	F1        float64 `json:"f1"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// SearchResult is the outcome of a hyperparameter search.
type SearchResult struct {
	BestScore  float64                `json:"best_score"`
	BestParams map[string]interface{} `json:"best_params"`
}
