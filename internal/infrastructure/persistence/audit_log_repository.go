package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/lending/backend/internal/domain/lending"
	"gorm.io/gorm"
)

// GormApplicationLogRepository implements ApplicationLogRepository using GORM.
// Audit entries are written by the aggregate repositories inside the mutating
// transaction; this repository only reads them back.
type GormApplicationLogRepository struct {
	db *gorm.DB
}

// NewGormApplicationLogRepository creates a new GormApplicationLogRepository
func NewGormApplicationLogRepository(db *gorm.DB) *GormApplicationLogRepository {
	return &GormApplicationLogRepository{db: db}
}

// FindByApplication returns an application's audit entries, newest first
func (r *GormApplicationLogRepository) FindByApplication(ctx context.Context, applicationID uuid.UUID) ([]lending.ApplicationLog, error) {
	var logs []lending.ApplicationLog
	if err := r.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// GormLoanLogRepository implements LoanLogRepository using GORM
type GormLoanLogRepository struct {
	db *gorm.DB
}

// NewGormLoanLogRepository creates a new GormLoanLogRepository
func NewGormLoanLogRepository(db *gorm.DB) *GormLoanLogRepository {
	return &GormLoanLogRepository{db: db}
}

// FindByLoan returns a loan's audit entries, newest first
func (r *GormLoanLogRepository) FindByLoan(ctx context.Context, loanID uuid.UUID) ([]lending.LoanLog, error) {
	var logs []lending.LoanLog
	if err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("created_at DESC").
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}

// Ensure the log repositories implement their domain interfaces
var (
	_ lending.ApplicationLogRepository = (*GormApplicationLogRepository)(nil)
	_ lending.LoanLogRepository        = (*GormLoanLogRepository)(nil)
)
