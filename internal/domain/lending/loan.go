package lending

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LoanStatus represents the status of a disbursed loan
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusPaidOff   LoanStatus = "PAID_OFF"
	LoanStatusDefaulted LoanStatus = "DEFAULTED"
)

// IsValid checks if the status is a valid LoanStatus
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusPaidOff, LoanStatusDefaulted:
		return true
	}
	return false
}

// String returns the string representation of LoanStatus
func (s LoanStatus) String() string {
	return string(s)
}

// FieldChange records a single field mutation for auditing
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// Loan represents a disbursed loan aggregate root.
// Exactly one loan may exist per approved application.
type Loan struct {
	shared.BaseAggregateRoot
	CustomerID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ApplicationID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	LoanAmount         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TenorMonths        int             `gorm:"not null"`
	Installment        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	InterestRate       decimal.Decimal `gorm:"type:decimal(8,2);not null"` // annual, percent
	RemainingTenor     int             `gorm:"not null"`
	RemainingPrincipal decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	TotalPaid          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status             LoanStatus      `gorm:"type:varchar(20);not null;index"`
	DisbursedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Loan) TableName() string {
	return "loans"
}

// NewLoan creates an active loan from an approved application's terms.
// The monthly installment is derived with the annuity formula.
func NewLoan(customerID, applicationID uuid.UUID, amount, annualRate decimal.Decimal, tenorMonths int) (*Loan, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if applicationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPLICATION", "Application ID cannot be empty")
	}

	installment, err := AnnuityInstallment(amount, annualRate, tenorMonths)
	if err != nil {
		return nil, err
	}

	loan := &Loan{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		CustomerID:         customerID,
		ApplicationID:      applicationID,
		LoanAmount:         amount,
		TenorMonths:        tenorMonths,
		Installment:        installment,
		InterestRate:       annualRate,
		RemainingTenor:     tenorMonths,
		RemainingPrincipal: amount,
		TotalPaid:          decimal.Zero,
		Status:             LoanStatusActive,
		DisbursedAt:        time.Now(),
	}

	loan.AddDomainEvent(NewLoanDisbursedEvent(loan))

	return loan, nil
}

// ChangeTenor updates the loan tenor and remaining tenor together
func (l *Loan) ChangeTenor(tenorMonths int) (FieldChange, error) {
	if err := l.ensureMutable(); err != nil {
		return FieldChange{}, err
	}
	if tenorMonths <= 0 {
		return FieldChange{}, shared.NewDomainError("INVALID_TENOR", "Tenor must be a positive number of months")
	}

	change := FieldChange{
		Field:    "tenor",
		OldValue: fmt.Sprintf("%d", l.TenorMonths),
		NewValue: fmt.Sprintf("%d", tenorMonths),
	}
	l.TenorMonths = tenorMonths
	l.RemainingTenor = tenorMonths
	l.Touch()

	return change, nil
}

// ChangeInstallment updates the monthly installment
func (l *Loan) ChangeInstallment(installment decimal.Decimal) (FieldChange, error) {
	if err := l.ensureMutable(); err != nil {
		return FieldChange{}, err
	}
	if installment.LessThanOrEqual(decimal.Zero) {
		return FieldChange{}, shared.NewDomainError("INVALID_INSTALLMENT", "Installment must be positive")
	}

	change := FieldChange{
		Field:    "installment",
		OldValue: l.Installment.StringFixed(2),
		NewValue: installment.StringFixed(2),
	}
	l.Installment = installment
	l.Touch()

	return change, nil
}

// ChangeInterestRate updates the annual interest rate
func (l *Loan) ChangeInterestRate(annualRate decimal.Decimal) (FieldChange, error) {
	if err := l.ensureMutable(); err != nil {
		return FieldChange{}, err
	}
	if annualRate.IsNegative() {
		return FieldChange{}, shared.NewDomainError("INVALID_RATE", "Interest rate cannot be negative")
	}

	change := FieldChange{
		Field:    "interest_rate",
		OldValue: l.InterestRate.StringFixed(2),
		NewValue: annualRate.StringFixed(2),
	}
	l.InterestRate = annualRate
	l.Touch()

	return change, nil
}

// ChangeRemainingPrincipal updates the outstanding principal
func (l *Loan) ChangeRemainingPrincipal(principal decimal.Decimal) (FieldChange, error) {
	if err := l.ensureMutable(); err != nil {
		return FieldChange{}, err
	}
	if principal.IsNegative() {
		return FieldChange{}, shared.NewDomainError("INVALID_PRINCIPAL", "Remaining principal cannot be negative")
	}
	if principal.GreaterThan(l.LoanAmount) {
		return FieldChange{}, shared.NewDomainError("INVALID_PRINCIPAL", "Remaining principal cannot exceed the loan amount")
	}

	change := FieldChange{
		Field:    "remaining_principal",
		OldValue: l.RemainingPrincipal.StringFixed(2),
		NewValue: principal.StringFixed(2),
	}
	l.RemainingPrincipal = principal
	l.Touch()

	return change, nil
}

// MarkPaidOff settles the loan. Requires the outstanding principal to be zero.
func (l *Loan) MarkPaidOff() error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay off loan in %s status", l.Status))
	}
	if !l.RemainingPrincipal.IsZero() {
		return shared.NewDomainError("INVALID_STATE", "Cannot pay off a loan with outstanding principal")
	}

	l.Status = LoanStatusPaidOff
	l.RemainingTenor = 0
	l.Touch()

	l.AddDomainEvent(NewLoanPaidOffEvent(l))

	return nil
}

// MarkDefaulted flags the loan as defaulted
func (l *Loan) MarkDefaulted() error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot default loan in %s status", l.Status))
	}

	l.Status = LoanStatusDefaulted
	l.Touch()

	l.AddDomainEvent(NewLoanDefaultedEvent(l))

	return nil
}

// IsActive returns true if the loan is still being repaid
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// ensureMutable rejects field updates on settled loans
func (l *Loan) ensureMutable() error {
	if l.Status != LoanStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot modify loan in %s status", l.Status))
	}
	return nil
}
