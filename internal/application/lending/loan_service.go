package lending

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/lending/backend/internal/domain/shared/valueobject"
)

// LoanService handles loan origination and servicing operations
type LoanService struct {
	loanRepo       lending.LoanRepository
	appRepo        lending.ApplicationRepository
	logRepo        lending.LoanLogRepository
	eventPublisher shared.EventPublisher
}

// NewLoanService creates a new LoanService
func NewLoanService(
	loanRepo lending.LoanRepository,
	appRepo lending.ApplicationRepository,
	logRepo lending.LoanLogRepository,
) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		appRepo:  appRepo,
		logRepo:  logRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *LoanService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create disburses a loan from an approved application. At most one loan
// may ever exist per application; the check here is advisory, the unique
// index on application_id makes it race-proof.
func (s *LoanService) Create(ctx context.Context, actorID uuid.UUID, req CreateLoanRequest) (*LoanResponse, error) {
	app, err := s.appRepo.FindByID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if !app.IsApproved() {
		return nil, shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot disburse a loan from an application in %s status", app.Status))
	}

	exists, err := s.loanRepo.ExistsByApplicationID(ctx, req.ApplicationID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_LOAN",
			"A loan has already been disbursed for this application")
	}

	loan, err := lending.NewLoan(app.CustomerID, app.ID, app.Amount, req.InterestRate, req.TenorMonths)
	if err != nil {
		return nil, err
	}

	log, err := lending.NewLoanLog(loan.ID, actorID, lending.AuditActionCreate,
		fmt.Sprintf("Loan disbursed from application %s", app.ID))
	if err != nil {
		return nil, err
	}

	if err := s.loanRepo.Create(ctx, loan, log); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, loan)

	response := ToLoanResponse(loan)
	return &response, nil
}

// Update applies a partial update to an active loan's terms. Every changed
// field yields one audit entry; entries and loan commit together. A request
// with no fields set returns the loan unchanged.
func (s *LoanService) Update(ctx context.Context, actorID, loanID uuid.UUID, req UpdateLoanRequest) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	var changes []lending.FieldChange

	if req.TenorMonths != nil {
		change, err := loan.ChangeTenor(*req.TenorMonths)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	if req.Installment != nil {
		change, err := loan.ChangeInstallment(*req.Installment)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	if req.InterestRate != nil {
		change, err := loan.ChangeInterestRate(*req.InterestRate)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}
	if req.RemainingPrincipal != nil {
		change, err := loan.ChangeRemainingPrincipal(*req.RemainingPrincipal)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	if len(changes) == 0 {
		response := ToLoanResponse(loan)
		return &response, nil
	}

	logs := make([]lending.LoanLog, 0, len(changes))
	for _, change := range changes {
		log, err := lending.NewLoanFieldLog(loan.ID, actorID, change)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *log)
	}

	if err := s.loanRepo.SaveWithLock(ctx, loan, logs); err != nil {
		return nil, err
	}

	response := ToLoanResponse(loan)
	return &response, nil
}

// MarkPaidOff settles a loan whose outstanding principal reached zero
func (s *LoanService) MarkPaidOff(ctx context.Context, actorID, loanID uuid.UUID) (*LoanResponse, error) {
	return s.changeStatus(ctx, actorID, loanID, "Loan paid off", (*lending.Loan).MarkPaidOff)
}

// MarkDefaulted flags a loan as defaulted
func (s *LoanService) MarkDefaulted(ctx context.Context, actorID, loanID uuid.UUID) (*LoanResponse, error) {
	return s.changeStatus(ctx, actorID, loanID, "Loan defaulted", (*lending.Loan).MarkDefaulted)
}

func (s *LoanService) changeStatus(ctx context.Context, actorID, loanID uuid.UUID, detail string, transition func(*lending.Loan) error) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	before := loan.Status
	if err := transition(loan); err != nil {
		return nil, err
	}

	log, err := lending.NewLoanLog(loan.ID, actorID, lending.AuditActionStatusChange, detail)
	if err != nil {
		return nil, err
	}
	log.Field = "status"
	log.OldValue = before.String()
	log.NewValue = loan.Status.String()

	if err := s.loanRepo.SaveWithLock(ctx, loan, []lending.LoanLog{*log}); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, loan)

	response := ToLoanResponse(loan)
	return &response, nil
}

// GetByID retrieves a loan by ID
func (s *LoanService) GetByID(ctx context.Context, loanID uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// GetByApplicationID retrieves the loan disbursed from an application
func (s *LoanService) GetByApplicationID(ctx context.Context, applicationID uuid.UUID) (*LoanResponse, error) {
	loan, err := s.loanRepo.FindByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	response := ToLoanResponse(loan)
	return &response, nil
}

// Search retrieves loans matching the given criteria
func (s *LoanService) Search(ctx context.Context, filter LoanSearchFilter) ([]LoanResponse, error) {
	criteria := lending.LoanSearchCriteria{
		CustomerID: filter.CustomerID,
		Status:     filter.Status,
		FromDate:   filter.FromDate,
		ToDate:     filter.ToDate,
	}
	loans, err := s.loanRepo.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(loans), nil
}

// GetHistory retrieves all loans ever disbursed to a customer
func (s *LoanService) GetHistory(ctx context.Context, customerID uuid.UUID) ([]LoanResponse, error) {
	loans, err := s.loanRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return ToLoanResponses(loans), nil
}

// GetCustomerExposure sums a customer's disbursed loan amounts
func (s *LoanService) GetCustomerExposure(ctx context.Context, customerID uuid.UUID) (*CustomerExposureResponse, error) {
	total, err := s.loanRepo.SumAmountByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loanRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	outstanding := valueobject.ZeroIDR()
	for i := range loans {
		if loans[i].Status != lending.LoanStatusActive {
			continue
		}
		outstanding, err = outstanding.Add(valueobject.NewMoneyIDR(loans[i].RemainingPrincipal))
		if err != nil {
			return nil, err
		}
	}

	return &CustomerExposureResponse{
		CustomerID:        customerID,
		TotalAmount:       total,
		OutstandingAmount: outstanding.Amount(),
		Currency:          string(outstanding.Currency()),
		LoanCount:         len(loans),
	}, nil
}

// GetLogs retrieves the audit trail of a loan, newest first
func (s *LoanService) GetLogs(ctx context.Context, loanID uuid.UUID) ([]LoanLogResponse, error) {
	if _, err := s.loanRepo.FindByID(ctx, loanID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.FindByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return ToLoanLogResponses(logs), nil
}

func (s *LoanService) publishEvents(ctx context.Context, loan *lending.Loan) {
	if s.eventPublisher == nil {
		return
	}
	events := loan.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	loan.ClearDomainEvents()
}
