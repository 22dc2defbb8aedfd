package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/lending/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLoanRepository implements LoanRepository using GORM
type GormLoanRepository struct {
	db *gorm.DB
}

// NewGormLoanRepository creates a new GormLoanRepository
func NewGormLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// FindByID finds a loan by its ID
func (r *GormLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.Loan, error) {
	var loan lending.Loan
	if err := r.db.WithContext(ctx).First(&loan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindByApplicationID finds the loan disbursed from an application
func (r *GormLoanRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*lending.Loan, error) {
	var loan lending.Loan
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		First(&loan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &loan, nil
}

// FindByCustomer finds all loans ever disbursed to a customer, newest first
func (r *GormLoanRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]lending.Loan, error) {
	var loans []lending.Loan
	if err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("disbursed_at DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// Search finds loans matching the criteria. Unset criteria match everything.
func (r *GormLoanRepository) Search(ctx context.Context, criteria lending.LoanSearchCriteria) ([]lending.Loan, error) {
	query := r.db.WithContext(ctx).Model(&lending.Loan{})

	if criteria.CustomerID != nil {
		query = query.Where("customer_id = ?", *criteria.CustomerID)
	}
	if criteria.Status != nil {
		query = query.Where("status = ?", criteria.Status.String())
	}
	if criteria.FromDate != nil {
		query = query.Where("disbursed_at >= ?", *criteria.FromDate)
	}
	if criteria.ToDate != nil {
		query = query.Where("disbursed_at <= ?", *criteria.ToDate)
	}

	var loans []lending.Loan
	if err := query.Order("disbursed_at DESC").Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

// SumAmountByCustomer sums the disbursed amounts of all the customer's loans
func (r *GormLoanRepository) SumAmountByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&lending.Loan{}).
		Where("customer_id = ?", customerID).
		Select("SUM(loan_amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// ExistsByApplicationID reports whether a loan exists for the application
func (r *GormLoanRepository) ExistsByApplicationID(ctx context.Context, applicationID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&lending.Loan{}).
		Where("application_id = ?", applicationID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the loan together with its audit entry in one transaction.
// The unique index on application_id rejects a second loan for the same
// application; that violation is surfaced as a conflict.
func (r *GormLoanRepository) Create(ctx context.Context, loan *lending.Loan, log *lending.LoanLog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(loan).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("DUPLICATE_LOAN",
				"A loan has already been disbursed for this application")
		}
		return err
	}
	return nil
}

// SaveWithLock saves the loan with optimistic locking (version check) and
// appends one audit entry per changed field in the same transaction
func (r *GormLoanRepository) SaveWithLock(ctx context.Context, loan *lending.Loan, logs []lending.LoanLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		read := tx.Model(&lending.Loan{}).
			Where("id = ?", loan.ID).
			Select("version").
			Scan(&currentVersion)
		if read.Error != nil {
			return read.Error
		}
		// Scan reports zero rows via RowsAffected, not ErrRecordNotFound
		if read.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != loan.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION",
				"The loan has been modified by another user")
		}

		loan.Version++
		loan.UpdatedAt = time.Now()

		result := tx.Model(&lending.Loan{}).
			Where("id = ? AND version = ?", loan.ID, currentVersion).
			Updates(map[string]interface{}{
				"tenor_months":        loan.TenorMonths,
				"installment":         loan.Installment,
				"interest_rate":       loan.InterestRate,
				"remaining_tenor":     loan.RemainingTenor,
				"remaining_principal": loan.RemainingPrincipal,
				"total_paid":          loan.TotalPaid,
				"status":              loan.Status,
				"version":             loan.Version,
				"updated_at":          loan.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION",
				"The loan has been modified by another user")
		}

		if len(logs) > 0 {
			if err := tx.Create(&logs).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Ensure GormLoanRepository implements LoanRepository
var _ lending.LoanRepository = (*GormLoanRepository)(nil)
