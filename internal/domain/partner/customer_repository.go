package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/shared"
)

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	Save(ctx context.Context, customer *Customer) error
	// SaveWithLock persists with an optimistic-lock version check
	SaveWithLock(ctx context.Context, customer *Customer) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
