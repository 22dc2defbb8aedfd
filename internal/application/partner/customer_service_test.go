package partner

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/partner"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCustomerRepository is a mock implementation of CustomerRepository
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

func TestCustomerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active customer with upper-cased code", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		repo.On("Save", ctx, mock.AnythingOfType("*partner.Customer")).Return(nil)

		resp, err := service.Create(ctx, CreateCustomerRequest{
			Code:  "cust-001",
			Name:  "PT Maju Jaya",
			Phone: "+62 811 000 111",
		})

		require.NoError(t, err)
		assert.Equal(t, "CUST-001", resp.Code)
		assert.Equal(t, partner.CustomerStatusActive, resp.Status)
		assert.Equal(t, "+62 811 000 111", resp.Phone)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid code", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)

		_, err := service.Create(ctx, CreateCustomerRequest{Code: "no spaces", Name: "PT Maju Jaya"})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CODE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_StatusChanges(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivate blocks further deactivation", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)
		customer, err := partner.NewCustomer("CUST-001", "PT Maju Jaya")
		require.NoError(t, err)

		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		repo.On("SaveWithLock", ctx, customer).Return(nil)

		resp, err := service.Deactivate(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, partner.CustomerStatusInactive, resp.Status)

		_, err = service.Deactivate(ctx, customer.ID)
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("update bumps version for optimistic locking", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo)
		customer, err := partner.NewCustomer("CUST-001", "PT Maju Jaya")
		require.NoError(t, err)

		repo.On("FindByID", ctx, customer.ID).Return(customer, nil)
		repo.On("SaveWithLock", ctx, customer).Return(nil)

		resp, err := service.Update(ctx, customer.ID, UpdateCustomerRequest{
			Name:  "PT Maju Jaya Abadi",
			Email: "finance@majujaya.co.id",
		})

		require.NoError(t, err)
		assert.Equal(t, "PT Maju Jaya Abadi", resp.Name)
		assert.Equal(t, 2, resp.Version)
	})
}
