package lending

import (
	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeApplication = "LoanApplication"

// Event type constants
const (
	EventTypeApplicationSubmitted = "LoanApplicationSubmitted"
	EventTypeApplicationReviewed  = "LoanApplicationReviewed"
	EventTypeApplicationApproved  = "LoanApplicationApproved"
)

// ApplicationSubmittedEvent is raised when a new loan application is created
type ApplicationSubmittedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID       `json:"application_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
	Purpose       string          `json:"purpose"`
}

// NewApplicationSubmittedEvent creates a new ApplicationSubmittedEvent
func NewApplicationSubmittedEvent(app *LoanApplication) *ApplicationSubmittedEvent {
	return &ApplicationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationSubmitted, AggregateTypeApplication, app.ID),
		ApplicationID:   app.ID,
		CustomerID:      app.CustomerID,
		Amount:          app.Amount,
		Purpose:         app.Purpose,
	}
}

// EventType returns the event type name
func (e *ApplicationSubmittedEvent) EventType() string {
	return EventTypeApplicationSubmitted
}

// ApplicationReviewedEvent is raised for every stage decision, approve or reject
type ApplicationReviewedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID         `json:"application_id"`
	CustomerID    uuid.UUID         `json:"customer_id"`
	FromStatus    ApplicationStatus `json:"from_status"`
	ToStatus      ApplicationStatus `json:"to_status"`
	Approved      bool              `json:"approved"`
	ActorID       uuid.UUID         `json:"actor_id"`
}

// NewApplicationReviewedEvent creates a new ApplicationReviewedEvent
func NewApplicationReviewedEvent(app *LoanApplication, change StatusChange, approved bool, actorID uuid.UUID) *ApplicationReviewedEvent {
	return &ApplicationReviewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationReviewed, AggregateTypeApplication, app.ID),
		ApplicationID:   app.ID,
		CustomerID:      app.CustomerID,
		FromStatus:      change.From,
		ToStatus:        change.To,
		Approved:        approved,
		ActorID:         actorID,
	}
}

// EventType returns the event type name
func (e *ApplicationReviewedEvent) EventType() string {
	return EventTypeApplicationReviewed
}

// ApplicationApprovedEvent is raised when the final stage approves the application.
// This event signals that a loan may now be originated.
type ApplicationApprovedEvent struct {
	shared.BaseDomainEvent
	ApplicationID uuid.UUID       `json:"application_id"`
	CustomerID    uuid.UUID       `json:"customer_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewApplicationApprovedEvent creates a new ApplicationApprovedEvent
func NewApplicationApprovedEvent(app *LoanApplication) *ApplicationApprovedEvent {
	return &ApplicationApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeApplicationApproved, AggregateTypeApplication, app.ID),
		ApplicationID:   app.ID,
		CustomerID:      app.CustomerID,
		Amount:          app.Amount,
	}
}

// EventType returns the event type name
func (e *ApplicationApprovedEvent) EventType() string {
	return EventTypeApplicationApproved
}
