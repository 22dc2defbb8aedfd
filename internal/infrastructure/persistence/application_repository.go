package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lending/backend/internal/domain/lending"
	"github.com/lending/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormApplicationRepository implements ApplicationRepository using GORM
type GormApplicationRepository struct {
	db *gorm.DB
}

// NewGormApplicationRepository creates a new GormApplicationRepository
func NewGormApplicationRepository(db *gorm.DB) *GormApplicationRepository {
	return &GormApplicationRepository{db: db}
}

// FindByID finds an application by its ID
func (r *GormApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*lending.LoanApplication, error) {
	var app lending.LoanApplication
	if err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &app, nil
}

// FindAll finds all applications matching the filter
func (r *GormApplicationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]lending.LoanApplication, error) {
	var apps []lending.LoanApplication
	query := r.applyFilter(r.db.WithContext(ctx).Model(&lending.LoanApplication{}), filter)

	if err := query.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// CountActiveByCustomer counts the customer's applications still under review
func (r *GormApplicationRepository) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&lending.LoanApplication{}).
		Where("customer_id = ? AND status IN ?", customerID, nonTerminalStatusStrings()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts the application together with its audit entry in one
// transaction. The partial unique index on (customer_id) over non-terminal
// statuses rejects a second in-flight application; that violation is
// surfaced as a conflict.
func (r *GormApplicationRepository) Create(ctx context.Context, app *lending.LoanApplication, log *lending.ApplicationLog) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(app).Error; err != nil {
			return err
		}
		return tx.Create(log).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return shared.NewDomainError("DUPLICATE_ACTIVE_APPLICATION",
				"Customer already has an application under review")
		}
		return err
	}
	return nil
}

// SaveWithLock saves the application with optimistic locking (version check)
// and appends the audit entry in the same transaction
func (r *GormApplicationRepository) SaveWithLock(ctx context.Context, app *lending.LoanApplication, log *lending.ApplicationLog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var currentVersion int
		read := tx.Model(&lending.LoanApplication{}).
			Where("id = ?", app.ID).
			Select("version").
			Scan(&currentVersion)
		if read.Error != nil {
			return read.Error
		}
		// Scan reports zero rows via RowsAffected, not ErrRecordNotFound
		if read.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if currentVersion != app.Version {
			return shared.NewDomainError("CONCURRENT_MODIFICATION",
				"The application has been modified by another user")
		}

		app.Version++
		app.UpdatedAt = time.Now()

		result := tx.Model(&lending.LoanApplication{}).
			Where("id = ? AND version = ?", app.ID, currentVersion).
			Updates(map[string]interface{}{
				"status":                     app.Status,
				"branch_id":                  app.BranchID,
				"marketing_reviewer_id":      app.MarketingReviewerID,
				"marketing_reviewed_at":      app.MarketingReviewedAt,
				"branch_manager_reviewer_id": app.BranchManagerReviewerID,
				"branch_manager_reviewed_at": app.BranchManagerReviewedAt,
				"back_office_reviewer_id":    app.BackOfficeReviewerID,
				"back_office_reviewed_at":    app.BackOfficeReviewedAt,
				"version":                    app.Version,
				"updated_at":                 app.UpdatedAt,
			})

		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.NewDomainError("CONCURRENT_MODIFICATION",
				"The application has been modified by another user")
		}

		return tx.Create(log).Error
	})
}

// Count counts applications matching the filter
func (r *GormApplicationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&lending.LoanApplication{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormApplicationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if filter.OrderDir == "desc" || filter.OrderDir == "DESC" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

func (r *GormApplicationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("purpose ILIKE ?", "%"+filter.Search+"%")
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "branch_id":
			query = query.Where("branch_id = ?", value)
		}
	}

	return query
}

func nonTerminalStatusStrings() []string {
	statuses := lending.NonTerminalStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505). TranslateError in the gorm config turns these
// into gorm.ErrDuplicatedKey; the pgconn check covers errors that reach us
// before translation, e.g. from raw statements.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Ensure GormApplicationRepository implements ApplicationRepository
var _ lending.ApplicationRepository = (*GormApplicationRepository)(nil)
