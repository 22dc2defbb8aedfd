package lending

import (
	"context"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/lending/backend/internal/domain/partner"
	"github.com/lending/backend/internal/domain/shared"
)

// ApplicationService handles loan application business operations
type ApplicationService struct {
	appRepo        lending.ApplicationRepository
	logRepo        lending.ApplicationLogRepository
	customerRepo   partner.CustomerRepository
	eventPublisher shared.EventPublisher
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	appRepo lending.ApplicationRepository,
	logRepo lending.ApplicationLogRepository,
	customerRepo partner.CustomerRepository,
) *ApplicationService {
	return &ApplicationService{
		appRepo:      appRepo,
		logRepo:      logRepo,
		customerRepo: customerRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ApplicationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create submits a new loan application on behalf of actorID.
// A customer may hold at most one in-flight application; the check here
// is advisory, the partial unique index on the applications table makes
// it race-proof.
func (s *ApplicationService) Create(ctx context.Context, actorID uuid.UUID, req CreateApplicationRequest) (*ApplicationResponse, error) {
	exists, err := s.customerRepo.ExistsByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	}

	active, err := s.appRepo.CountActiveByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, shared.NewDomainError("DUPLICATE_ACTIVE_APPLICATION",
			"Customer already has an application under review")
	}

	app, err := lending.NewLoanApplication(req.CustomerID, req.Amount, req.Purpose)
	if err != nil {
		return nil, err
	}

	if req.BranchID != nil {
		if err := app.SetBranch(*req.BranchID); err != nil {
			return nil, err
		}
	}

	after := app.Status
	log, err := lending.NewApplicationLog(app.ID, actorID, lending.AuditActionCreate, nil, &after, "Application submitted")
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.Create(ctx, app, log); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, app)

	response := ToApplicationResponse(app)
	return &response, nil
}

// Review applies one stage decision to the application. The application
// advances (or terminates) according to the stage it is currently in, and
// the decision is appended to the audit trail in the same transaction.
func (s *ApplicationService) Review(ctx context.Context, actorID, applicationID uuid.UUID, req ReviewApplicationRequest) (*ApplicationResponse, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	approved := req.Approved != nil && *req.Approved

	change, err := app.Review(approved, actorID)
	if err != nil {
		return nil, err
	}

	action := lending.AuditActionReject
	if approved {
		action = lending.AuditActionApprove
	}
	log, err := lending.NewApplicationLog(app.ID, actorID, action, &change.From, &change.To, req.Remark)
	if err != nil {
		return nil, err
	}

	if err := s.appRepo.SaveWithLock(ctx, app, log); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, app)

	response := ToApplicationResponse(app)
	return &response, nil
}

// GetByID retrieves an application by ID
func (s *ApplicationService) GetByID(ctx context.Context, applicationID uuid.UUID) (*ApplicationResponse, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	response := ToApplicationResponse(app)
	return &response, nil
}

// List retrieves applications with filtering and pagination
func (s *ApplicationService) List(ctx context.Context, filter ApplicationListFilter) ([]ApplicationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]interface{}{},
	}
	if filter.Status != nil {
		domainFilter.Filters["status"] = filter.Status.String()
	}
	// Customer scoping rides in the filter so the rows and the pagination
	// total always see the same conditions.
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	apps, err := s.appRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.appRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToApplicationResponses(apps), total, nil
}

// GetLogs retrieves the audit trail of an application, newest first
func (s *ApplicationService) GetLogs(ctx context.Context, applicationID uuid.UUID) ([]ApplicationLogResponse, error) {
	if _, err := s.appRepo.FindByID(ctx, applicationID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.FindByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return ToApplicationLogResponses(logs), nil
}

// publishEvents publishes the aggregate's pending events, if a publisher
// is configured. Publishing is best effort; the state change has already
// been committed.
func (s *ApplicationService) publishEvents(ctx context.Context, app *lending.LoanApplication) {
	if s.eventPublisher == nil {
		return
	}
	events := app.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	app.ClearDomainEvents()
}
