package lending

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ApplicationStatus represents the status of a loan application
type ApplicationStatus string

const (
	ApplicationStatusPendingMarketing      ApplicationStatus = "PENDING_MARKETING"
	ApplicationStatusPendingBranchManager  ApplicationStatus = "PENDING_BRANCH_MANAGER"
	ApplicationStatusPendingBackOffice     ApplicationStatus = "PENDING_BACK_OFFICE"
	ApplicationStatusApproved              ApplicationStatus = "APPROVED"
	ApplicationStatusRejectedMarketing     ApplicationStatus = "REJECTED_MARKETING"
	ApplicationStatusRejectedBranchManager ApplicationStatus = "REJECTED_BRANCH_MANAGER"
	ApplicationStatusRejectedBackOffice    ApplicationStatus = "REJECTED_BACK_OFFICE"
)

// stageOutcome holds the two statuses a review decision can lead to
type stageOutcome struct {
	onApprove ApplicationStatus
	onReject  ApplicationStatus
}

// transitions declares the full approval table once. Statuses absent from the
// map are terminal and admit no further review.
var transitions = map[ApplicationStatus]stageOutcome{
	ApplicationStatusPendingMarketing: {
		onApprove: ApplicationStatusPendingBranchManager,
		onReject:  ApplicationStatusRejectedMarketing,
	},
	ApplicationStatusPendingBranchManager: {
		onApprove: ApplicationStatusPendingBackOffice,
		onReject:  ApplicationStatusRejectedBranchManager,
	},
	ApplicationStatusPendingBackOffice: {
		onApprove: ApplicationStatusApproved,
		onReject:  ApplicationStatusRejectedBackOffice,
	},
}

// IsValid checks if the status is a valid ApplicationStatus
func (s ApplicationStatus) IsValid() bool {
	switch s {
	case ApplicationStatusPendingMarketing, ApplicationStatusPendingBranchManager,
		ApplicationStatusPendingBackOffice, ApplicationStatusApproved,
		ApplicationStatusRejectedMarketing, ApplicationStatusRejectedBranchManager,
		ApplicationStatusRejectedBackOffice:
		return true
	}
	return false
}

// String returns the string representation of ApplicationStatus
func (s ApplicationStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further review is permitted from this status
func (s ApplicationStatus) IsTerminal() bool {
	_, ok := transitions[s]
	return !ok
}

// Next returns the status a review decision leads to from the current status.
// Terminal statuses return an INVALID_STATE error.
func (s ApplicationStatus) Next(approved bool) (ApplicationStatus, error) {
	outcome, ok := transitions[s]
	if !ok {
		return "", shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Application in %s status cannot be reviewed", s))
	}
	if approved {
		return outcome.onApprove, nil
	}
	return outcome.onReject, nil
}

// NonTerminalStatuses returns the statuses in which an application is still in flight
func NonTerminalStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusPendingMarketing,
		ApplicationStatusPendingBranchManager,
		ApplicationStatusPendingBackOffice,
	}
}

// StatusChange records a single status transition for auditing
type StatusChange struct {
	From ApplicationStatus
	To   ApplicationStatus
}

// LoanApplication represents a loan application aggregate root.
// It advances through three review stages (marketing, branch manager,
// back office) and becomes immutable once a terminal status is reached.
type LoanApplication struct {
	shared.BaseAggregateRoot
	CustomerID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Purpose    string            `gorm:"type:text;not null"`
	Status     ApplicationStatus `gorm:"type:varchar(30);not null;index"`
	BranchID   *uuid.UUID        `gorm:"type:uuid;index"`

	MarketingReviewerID     *uuid.UUID `gorm:"type:uuid"`
	MarketingReviewedAt     *time.Time
	BranchManagerReviewerID *uuid.UUID `gorm:"type:uuid"`
	BranchManagerReviewedAt *time.Time
	BackOfficeReviewerID    *uuid.UUID `gorm:"type:uuid"`
	BackOfficeReviewedAt    *time.Time
}

// TableName returns the table name for GORM
func (LoanApplication) TableName() string {
	return "loan_applications"
}

// NewLoanApplication creates a new loan application in the initial review stage
func NewLoanApplication(customerID uuid.UUID, amount decimal.Decimal, purpose string) (*LoanApplication, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Requested amount must be positive")
	}
	if strings.TrimSpace(purpose) == "" {
		return nil, shared.NewDomainError("INVALID_PURPOSE", "Purpose cannot be empty")
	}

	app := &LoanApplication{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		Amount:            amount,
		Purpose:           purpose,
		Status:            ApplicationStatusPendingMarketing,
	}

	app.AddDomainEvent(NewApplicationSubmittedEvent(app))

	return app, nil
}

// SetBranch assigns the originating branch.
// Only allowed while the application is still in flight.
func (a *LoanApplication) SetBranch(branchID uuid.UUID) error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign branch to a settled application")
	}
	if branchID == uuid.Nil {
		return shared.NewDomainError("INVALID_BRANCH", "Branch ID cannot be empty")
	}

	a.BranchID = &branchID
	a.Touch()

	return nil
}

// Review applies a single stage decision. The reviewer identity is recorded
// verbatim on the stage the application is currently in; role checks happen
// before this method is reached. Returns the resulting status change.
func (a *LoanApplication) Review(approved bool, actorID uuid.UUID) (StatusChange, error) {
	if actorID == uuid.Nil {
		return StatusChange{}, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}

	next, err := a.Status.Next(approved)
	if err != nil {
		return StatusChange{}, err
	}

	now := time.Now()
	switch a.Status {
	case ApplicationStatusPendingMarketing:
		a.MarketingReviewerID = &actorID
		a.MarketingReviewedAt = &now
	case ApplicationStatusPendingBranchManager:
		a.BranchManagerReviewerID = &actorID
		a.BranchManagerReviewedAt = &now
	case ApplicationStatusPendingBackOffice:
		a.BackOfficeReviewerID = &actorID
		a.BackOfficeReviewedAt = &now
	}

	change := StatusChange{From: a.Status, To: next}
	a.Status = next
	a.UpdatedAt = now

	a.AddDomainEvent(NewApplicationReviewedEvent(a, change, approved, actorID))
	if next == ApplicationStatusApproved {
		a.AddDomainEvent(NewApplicationApprovedEvent(a))
	}

	return change, nil
}

// IsApproved returns true if the application reached the terminal approved status
func (a *LoanApplication) IsApproved() bool {
	return a.Status == ApplicationStatusApproved
}

// IsRejected returns true if the application was rejected at any stage
func (a *LoanApplication) IsRejected() bool {
	switch a.Status {
	case ApplicationStatusRejectedMarketing, ApplicationStatusRejectedBranchManager,
		ApplicationStatusRejectedBackOffice:
		return true
	}
	return false
}

// IsInFlight returns true while the application still awaits a review stage
func (a *LoanApplication) IsInFlight() bool {
	return !a.Status.IsTerminal()
}
