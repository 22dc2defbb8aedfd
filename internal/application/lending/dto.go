package lending

import (
	"time"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/shopspring/decimal"
)

// ==================== Application DTOs ====================

// CreateApplicationRequest represents a request to submit a loan application
type CreateApplicationRequest struct {
	CustomerID uuid.UUID       `json:"customer_id" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Purpose    string          `json:"purpose" binding:"required,min=1,max=500"`
	BranchID   *uuid.UUID      `json:"branch_id"`
}

// ReviewApplicationRequest represents a single stage review decision.
// Approved is a pointer so that an explicit false is distinguishable
// from an absent field.
type ReviewApplicationRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Remark   string `json:"remark" binding:"max=500"`
}

// ApplicationListFilter represents filter options for the application list
type ApplicationListFilter struct {
	Search     string                     `form:"search"`
	CustomerID *uuid.UUID                 `form:"customer_id"`
	Status     *lending.ApplicationStatus `form:"status"`
	Page       int                        `form:"page"`
	PageSize   int                        `form:"page_size"`
	OrderBy    string                     `form:"order_by"`
	OrderDir   string                     `form:"order_dir"`
}

// StageReviewResponse represents one completed review stage
type StageReviewResponse struct {
	ReviewerID uuid.UUID `json:"reviewer_id"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// ApplicationResponse represents a loan application in API responses
type ApplicationResponse struct {
	ID            uuid.UUID                 `json:"id"`
	CustomerID    uuid.UUID                 `json:"customer_id"`
	Amount        decimal.Decimal           `json:"amount"`
	Purpose       string                    `json:"purpose"`
	Status        lending.ApplicationStatus `json:"status"`
	BranchID      *uuid.UUID                `json:"branch_id,omitempty"`
	Marketing     *StageReviewResponse      `json:"marketing_review,omitempty"`
	BranchManager *StageReviewResponse      `json:"branch_manager_review,omitempty"`
	BackOffice    *StageReviewResponse      `json:"back_office_review,omitempty"`
	Version       int                       `json:"version"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
}

// ApplicationLogResponse represents an application audit entry
type ApplicationLogResponse struct {
	ID            uuid.UUID                  `json:"id"`
	ApplicationID uuid.UUID                  `json:"application_id"`
	Action        lending.AuditAction        `json:"action"`
	ActorID       uuid.UUID                  `json:"actor_id"`
	BeforeStatus  *lending.ApplicationStatus `json:"before_status,omitempty"`
	AfterStatus   *lending.ApplicationStatus `json:"after_status,omitempty"`
	Detail        string                     `json:"detail,omitempty"`
	CreatedAt     time.Time                  `json:"created_at"`
}

// ==================== Loan DTOs ====================

// CreateLoanRequest represents a request to disburse a loan from an
// approved application. TenorMonths deliberately carries no binding
// constraint: a non-positive tenor must surface as a calculation error,
// not a validation one.
type CreateLoanRequest struct {
	ApplicationID uuid.UUID       `json:"application_id" binding:"required"`
	InterestRate  decimal.Decimal `json:"interest_rate" binding:"required"`
	TenorMonths   int             `json:"tenor_months"`
}

// UpdateLoanRequest represents a partial update to a loan's terms.
// Nil fields are left untouched.
type UpdateLoanRequest struct {
	TenorMonths        *int             `json:"tenor_months"`
	Installment        *decimal.Decimal `json:"installment"`
	InterestRate       *decimal.Decimal `json:"interest_rate"`
	RemainingPrincipal *decimal.Decimal `json:"remaining_principal"`
}

// LoanSearchFilter represents filter options for loan search
type LoanSearchFilter struct {
	CustomerID *uuid.UUID          `form:"customer_id"`
	Status     *lending.LoanStatus `form:"status"`
	FromDate   *time.Time          `form:"from_date" time_format:"2006-01-02"`
	ToDate     *time.Time          `form:"to_date" time_format:"2006-01-02"`
}

// LoanResponse represents a loan in API responses
type LoanResponse struct {
	ID                 uuid.UUID          `json:"id"`
	CustomerID         uuid.UUID          `json:"customer_id"`
	ApplicationID      uuid.UUID          `json:"application_id"`
	LoanAmount         decimal.Decimal    `json:"loan_amount"`
	TenorMonths        int                `json:"tenor_months"`
	Installment        decimal.Decimal    `json:"installment"`
	InterestRate       decimal.Decimal    `json:"interest_rate"`
	RemainingTenor     int                `json:"remaining_tenor"`
	RemainingPrincipal decimal.Decimal    `json:"remaining_principal"`
	TotalPaid          decimal.Decimal    `json:"total_paid"`
	Status             lending.LoanStatus `json:"status"`
	DisbursedAt        time.Time          `json:"disbursed_at"`
	Version            int                `json:"version"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// LoanLogResponse represents a loan audit entry
type LoanLogResponse struct {
	ID        uuid.UUID           `json:"id"`
	LoanID    uuid.UUID           `json:"loan_id"`
	Action    lending.AuditAction `json:"action"`
	ActorID   uuid.UUID           `json:"actor_id"`
	Field     string              `json:"field,omitempty"`
	OldValue  string              `json:"old_value,omitempty"`
	NewValue  string              `json:"new_value,omitempty"`
	Detail    string              `json:"detail,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// CustomerExposureResponse represents a customer's aggregate loan exposure
type CustomerExposureResponse struct {
	CustomerID        uuid.UUID       `json:"customer_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	Currency          string          `json:"currency"`
	LoanCount         int             `json:"loan_count"`
}

// ==================== Mappers ====================

// ToApplicationResponse converts a domain application to a response DTO
func ToApplicationResponse(app *lending.LoanApplication) ApplicationResponse {
	resp := ApplicationResponse{
		ID:         app.ID,
		CustomerID: app.CustomerID,
		Amount:     app.Amount,
		Purpose:    app.Purpose,
		Status:     app.Status,
		BranchID:   app.BranchID,
		Version:    app.Version,
		CreatedAt:  app.CreatedAt,
		UpdatedAt:  app.UpdatedAt,
	}
	if app.MarketingReviewerID != nil && app.MarketingReviewedAt != nil {
		resp.Marketing = &StageReviewResponse{
			ReviewerID: *app.MarketingReviewerID,
			ReviewedAt: *app.MarketingReviewedAt,
		}
	}
	if app.BranchManagerReviewerID != nil && app.BranchManagerReviewedAt != nil {
		resp.BranchManager = &StageReviewResponse{
			ReviewerID: *app.BranchManagerReviewerID,
			ReviewedAt: *app.BranchManagerReviewedAt,
		}
	}
	if app.BackOfficeReviewerID != nil && app.BackOfficeReviewedAt != nil {
		resp.BackOffice = &StageReviewResponse{
			ReviewerID: *app.BackOfficeReviewerID,
			ReviewedAt: *app.BackOfficeReviewedAt,
		}
	}
	return resp
}

// ToApplicationResponses converts a slice of domain applications
func ToApplicationResponses(apps []lending.LoanApplication) []ApplicationResponse {
	responses := make([]ApplicationResponse, len(apps))
	for i := range apps {
		responses[i] = ToApplicationResponse(&apps[i])
	}
	return responses
}

// ToApplicationLogResponse converts a domain audit entry to a response DTO
func ToApplicationLogResponse(log *lending.ApplicationLog) ApplicationLogResponse {
	return ApplicationLogResponse{
		ID:            log.ID,
		ApplicationID: log.ApplicationID,
		Action:        log.Action,
		ActorID:       log.ActorID,
		BeforeStatus:  log.BeforeStatus,
		AfterStatus:   log.AfterStatus,
		Detail:        log.Detail,
		CreatedAt:     log.CreatedAt,
	}
}

// ToApplicationLogResponses converts a slice of domain audit entries
func ToApplicationLogResponses(logs []lending.ApplicationLog) []ApplicationLogResponse {
	responses := make([]ApplicationLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToApplicationLogResponse(&logs[i])
	}
	return responses
}

// ToLoanResponse converts a domain loan to a response DTO
func ToLoanResponse(loan *lending.Loan) LoanResponse {
	return LoanResponse{
		ID:                 loan.ID,
		CustomerID:         loan.CustomerID,
		ApplicationID:      loan.ApplicationID,
		LoanAmount:         loan.LoanAmount,
		TenorMonths:        loan.TenorMonths,
		Installment:        loan.Installment,
		InterestRate:       loan.InterestRate,
		RemainingTenor:     loan.RemainingTenor,
		RemainingPrincipal: loan.RemainingPrincipal,
		TotalPaid:          loan.TotalPaid,
		Status:             loan.Status,
		DisbursedAt:        loan.DisbursedAt,
		Version:            loan.Version,
		CreatedAt:          loan.CreatedAt,
		UpdatedAt:          loan.UpdatedAt,
	}
}

// ToLoanResponses converts a slice of domain loans
func ToLoanResponses(loans []lending.Loan) []LoanResponse {
	responses := make([]LoanResponse, len(loans))
	for i := range loans {
		responses[i] = ToLoanResponse(&loans[i])
	}
	return responses
}

// ToLoanLogResponse converts a domain loan audit entry to a response DTO
func ToLoanLogResponse(log *lending.LoanLog) LoanLogResponse {
	return LoanLogResponse{
		ID:        log.ID,
		LoanID:    log.LoanID,
		Action:    log.Action,
		ActorID:   log.ActorID,
		Field:     log.Field,
		OldValue:  log.OldValue,
		NewValue:  log.NewValue,
		Detail:    log.Detail,
		CreatedAt: log.CreatedAt,
	}
}

// ToLoanLogResponses converts a slice of domain loan audit entries
func ToLoanLogResponses(logs []lending.LoanLog) []LoanLogResponse {
	responses := make([]LoanLogResponse, len(logs))
	for i := range logs {
		responses[i] = ToLoanLogResponse(&logs[i])
	}
	return responses
}
