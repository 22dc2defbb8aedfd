package lending

import (
	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
)

// AuditAction represents actions recorded in the audit trail
type AuditAction string

const (
	// AuditActionCreate indicates an entity was created
	AuditActionCreate AuditAction = "CREATE"
	// AuditActionApprove indicates a review stage approved the application
	AuditActionApprove AuditAction = "APPROVE"
	// AuditActionReject indicates a review stage rejected the application
	AuditActionReject AuditAction = "REJECT"
	// AuditActionUpdate indicates a field value was changed
	AuditActionUpdate AuditAction = "UPDATE"
	// AuditActionStatusChange indicates a loan status change (paid off, defaulted)
	AuditActionStatusChange AuditAction = "STATUS_CHANGE"
)

// IsValid checks if the audit action is valid
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionApprove, AuditActionReject,
		AuditActionUpdate, AuditActionStatusChange:
		return true
	}
	return false
}

// ApplicationLog is an append-only audit entry for a loan application.
// Entries are written in the same transaction as the mutation they record
// and are never updated or deleted.
type ApplicationLog struct {
	shared.BaseEntity
	ApplicationID uuid.UUID          `gorm:"type:uuid;not null;index"`
	Action        AuditAction        `gorm:"type:varchar(20);not null"`
	ActorID       uuid.UUID          `gorm:"type:uuid;not null"`
	BeforeStatus  *ApplicationStatus `gorm:"type:varchar(30)"`
	AfterStatus   *ApplicationStatus `gorm:"type:varchar(30)"`
	Detail        string             `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ApplicationLog) TableName() string {
	return "application_logs"
}

// NewApplicationLog creates a new application audit entry
func NewApplicationLog(applicationID, actorID uuid.UUID, action AuditAction, before, after *ApplicationStatus, detail string) (*ApplicationLog, error) {
	if applicationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPLICATION", "Application ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid audit action")
	}

	return &ApplicationLog{
		BaseEntity:    shared.NewBaseEntity(),
		ApplicationID: applicationID,
		Action:        action,
		ActorID:       actorID,
		BeforeStatus:  before,
		AfterStatus:   after,
		Detail:        detail,
	}, nil
}

// LoanLog is an append-only audit entry for a loan.
// Field-level changes record the field name with old and new values.
type LoanLog struct {
	shared.BaseEntity
	LoanID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Action   AuditAction `gorm:"type:varchar(20);not null"`
	ActorID  uuid.UUID   `gorm:"type:uuid;not null"`
	Field    string      `gorm:"type:varchar(50)"`
	OldValue string      `gorm:"type:varchar(100)"`
	NewValue string      `gorm:"type:varchar(100)"`
	Detail   string      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LoanLog) TableName() string {
	return "loan_logs"
}

// NewLoanLog creates a new loan audit entry
func NewLoanLog(loanID, actorID uuid.UUID, action AuditAction, detail string) (*LoanLog, error) {
	if loanID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOAN", "Loan ID cannot be empty")
	}
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACTOR", "Actor ID cannot be empty")
	}
	if !action.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACTION", "Invalid audit action")
	}

	return &LoanLog{
		BaseEntity: shared.NewBaseEntity(),
		LoanID:     loanID,
		Action:     action,
		ActorID:    actorID,
		Detail:     detail,
	}, nil
}

// NewLoanFieldLog creates a loan audit entry for a single field change
func NewLoanFieldLog(loanID, actorID uuid.UUID, change FieldChange) (*LoanLog, error) {
	log, err := NewLoanLog(loanID, actorID, AuditActionUpdate, "")
	if err != nil {
		return nil, err
	}
	if change.Field == "" {
		return nil, shared.NewDomainError("INVALID_FIELD", "Field name cannot be empty")
	}

	log.Field = change.Field
	log.OldValue = change.OldValue
	log.NewValue = change.NewValue

	return log, nil
}
