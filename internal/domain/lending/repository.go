package lending

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LoanSearchCriteria holds optional loan search filters.
// Unset fields match everything; set fields combine with logical AND.
type LoanSearchCriteria struct {
	CustomerID *uuid.UUID
	Status     *LoanStatus
	FromDate   *time.Time
	ToDate     *time.Time
}

// ApplicationRepository persists loan applications.
// Mutating methods accept the audit entry recording the mutation so that
// entity and log commit in a single transaction.
type ApplicationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*LoanApplication, error)
	// FindAll honors customer_id and status entries in filter.Filters so
	// listing and counting stay scoped identically.
	FindAll(ctx context.Context, filter shared.Filter) ([]LoanApplication, error)
	// CountActiveByCustomer counts the customer's applications in a
	// non-terminal status. A partial unique index backs the same invariant
	// at the storage layer.
	CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	Create(ctx context.Context, app *LoanApplication, log *ApplicationLog) error
	// SaveWithLock persists the application with an optimistic-lock version
	// check, appending the audit entry in the same transaction.
	SaveWithLock(ctx context.Context, app *LoanApplication, log *ApplicationLog) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// LoanRepository persists disbursed loans
type LoanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Loan, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*Loan, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]Loan, error)
	Search(ctx context.Context, criteria LoanSearchCriteria) ([]Loan, error)
	SumAmountByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)
	ExistsByApplicationID(ctx context.Context, applicationID uuid.UUID) (bool, error)
	Create(ctx context.Context, loan *Loan, log *LoanLog) error
	// SaveWithLock persists the loan with an optimistic-lock version check,
	// appending one audit entry per changed field in the same transaction.
	SaveWithLock(ctx context.Context, loan *Loan, logs []LoanLog) error
}

// ApplicationLogRepository reads the application audit trail
type ApplicationLogRepository interface {
	// FindByApplication returns entries ordered newest first
	FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]ApplicationLog, error)
}

// LoanLogRepository reads the loan audit trail
type LoanLogRepository interface {
	// FindByLoan returns entries ordered newest first
	FindByLoan(ctx context.Context, loanID uuid.UUID) ([]LoanLog, error)
}
