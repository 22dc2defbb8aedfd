package lending

import (
	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeLoan = "Loan"

// Event type constants
const (
	EventTypeLoanDisbursed = "LoanDisbursed"
	EventTypeLoanPaidOff   = "LoanPaidOff"
	EventTypeLoanDefaulted = "LoanDefaulted"
)

// LoanDisbursedEvent is raised when a loan is originated from an approved application
type LoanDisbursedEvent struct {
	shared.BaseDomainEvent
	LoanID        uuid.UUID       `json:"loan_id"`
	ApplicationID uuid.UUID       `json:"application_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	LoanAmount    decimal.Decimal `json:"loan_amount"`
	TenorMonths   int             `json:"tenor_months"`
	Installment   decimal.Decimal `json:"installment"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
}

// NewLoanDisbursedEvent creates a new LoanDisbursedEvent
func NewLoanDisbursedEvent(loan *Loan) *LoanDisbursedEvent {
	return &LoanDisbursedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanDisbursed, AggregateTypeLoan, loan.ID),
		LoanID:          loan.ID,
		ApplicationID:   loan.ApplicationID,
		CustomerID:      loan.CustomerID,
		LoanAmount:      loan.LoanAmount,
		TenorMonths:     loan.TenorMonths,
		Installment:     loan.Installment,
		InterestRate:    loan.InterestRate,
	}
}

// EventType returns the event type name
func (e *LoanDisbursedEvent) EventType() string {
	return EventTypeLoanDisbursed
}

// LoanPaidOffEvent is raised when a loan is fully repaid
type LoanPaidOffEvent struct {
	shared.BaseDomainEvent
	LoanID     uuid.UUID       `json:"loan_id"`
	CustomerID uuid.UUID       `json:"customer_id"`
	TotalPaid  decimal.Decimal `json:"total_paid"`
}

// NewLoanPaidOffEvent creates a new LoanPaidOffEvent
func NewLoanPaidOffEvent(loan *Loan) *LoanPaidOffEvent {
	return &LoanPaidOffEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLoanPaidOff, AggregateTypeLoan, loan.ID),
		LoanID:          loan.ID,
		CustomerID:      loan.CustomerID,
		TotalPaid:       loan.TotalPaid,
	}
}

// EventType returns the event type name
func (e *LoanPaidOffEvent) EventType() string {
	return EventTypeLoanPaidOff
}

// LoanDefaultedEvent is raised when a loan is flagged as defaulted
type LoanDefaultedEvent struct {
	shared.BaseDomainEvent
	LoanID             uuid.UUID       `json:"loan_id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	RemainingPrincipal decimal.Decimal `json:"remaining_principal"`
}

// NewLoanDefaultedEvent creates a new LoanDefaultedEvent
func NewLoanDefaultedEvent(loan *Loan) *LoanDefaultedEvent {
	return &LoanDefaultedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeLoanDefaulted, AggregateTypeLoan, loan.ID),
		LoanID:             loan.ID,
		CustomerID:         loan.CustomerID,
		RemainingPrincipal: loan.RemainingPrincipal,
	}
}

// EventType returns the event type name
func (e *LoanDefaultedEvent) EventType() string {
	return EventTypeLoanDefaulted
}
