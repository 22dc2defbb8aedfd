package lending

import (
	"context"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/lending/backend/internal/domain/partner"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockApplicationRepository is a mock implementation of ApplicationRepository
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.LoanApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lending.LoanApplication, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lending.LoanApplication), args.Error(1)
}

func (m *MockApplicationRepository) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *lending.LoanApplication, log *lending.ApplicationLog) error {
	args := m.Called(ctx, app, log)
	return args.Error(0)
}

func (m *MockApplicationRepository) SaveWithLock(ctx context.Context, app *lending.LoanApplication, log *lending.ApplicationLog) error {
	args := m.Called(ctx, app, log)
	return args.Error(0)
}

func (m *MockApplicationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockLoanRepository is a mock implementation of LoanRepository
type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*lending.Loan, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]lending.Loan, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) Search(ctx context.Context, criteria lending.LoanSearchCriteria) ([]lending.Loan, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lending.Loan), args.Error(1)
}

func (m *MockLoanRepository) SumAmountByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLoanRepository) ExistsByApplicationID(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, applicationID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *lending.Loan, log *lending.LoanLog) error {
	args := m.Called(ctx, loan, log)
	return args.Error(0)
}

func (m *MockLoanRepository) SaveWithLock(ctx context.Context, loan *lending.Loan, logs []lending.LoanLog) error {
	args := m.Called(ctx, loan, logs)
	return args.Error(0)
}

// MockApplicationLogRepository is a mock implementation of ApplicationLogRepository
type MockApplicationLogRepository struct {
	mock.Mock
}

func (m *MockApplicationLogRepository) FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]lending.ApplicationLog, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lending.ApplicationLog), args.Error(1)
}

// MockLoanLogRepository is a mock implementation of LoanLogRepository
type MockLoanLogRepository struct {
	mock.Mock
}

func (m *MockLoanLogRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]lending.LoanLog, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lending.LoanLog), args.Error(1)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// newTestApplication builds an application in the given status for tests
func newTestApplication(customerID uuid.UUID, status lending.ApplicationStatus) *lending.LoanApplication {
	app, _ := lending.NewLoanApplication(customerID, decimal.NewFromInt(1200000), "Working capital")
	app.Status = status
	app.ClearDomainEvents()
	return app
}

// newTestLoan builds an active loan for tests
func newTestLoan(customerID, applicationID uuid.UUID) *lending.Loan {
	loan, _ := lending.NewLoan(customerID, applicationID,
		decimal.NewFromInt(1200000), decimal.NewFromInt(12), 12)
	loan.ClearDomainEvents()
	return loan
}
