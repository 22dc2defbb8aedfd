package partner

import (
	"regexp"
	"strings"

	"github.com/lending/backend/internal/domain/shared"
)

// CustomerStatus represents the status of a customer
type CustomerStatus string

const (
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

var customerCodePattern = regexp.MustCompile(`^[A-Z0-9_-]{1,50}$`)

// Customer represents a borrower in the customer directory.
// The lending workflow only consults it for existence and identity; it holds
// no credit state of its own.
type Customer struct {
	shared.BaseAggregateRoot
	Code   string         `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name   string         `gorm:"type:varchar(200);not null"`
	Phone  string         `gorm:"type:varchar(50);index"`
	Email  string         `gorm:"type:varchar(200);index"`
	Status CustomerStatus `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new active customer
func NewCustomer(code, name string) (*Customer, error) {
	if err := validateCustomerCode(code); err != nil {
		return nil, err
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Status:            CustomerStatusActive,
	}, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, email string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Touch()
	c.IncrementVersion()

	return nil
}

// Deactivate marks the customer as inactive.
// Inactive customers cannot submit new loan applications.
func (c *Customer) Deactivate() error {
	if c.Status == CustomerStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}

	c.Status = CustomerStatusInactive
	c.Touch()
	c.IncrementVersion()

	return nil
}

// Activate marks the customer as active
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}

	c.Status = CustomerStatusActive
	c.Touch()
	c.IncrementVersion()

	return nil
}

// IsActive returns true if the customer can transact
func (c *Customer) IsActive() bool {
	return c.Status == CustomerStatusActive
}

func validateCustomerCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if !customerCodePattern.MatchString(strings.ToUpper(code)) {
		return shared.NewDomainError("INVALID_CODE", "Customer code may only contain letters, digits, underscore and hyphen")
	}
	return nil
}

func validateCustomerName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
