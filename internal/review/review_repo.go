package review

import (
	"context"
	"database/sql"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=review_repo.go -destination=mock/review_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindByID(ctx context.Context, id string) (*PerformanceReview, error)
	FindByIDForUpdate(ctx context.Context, id string) (*PerformanceReview, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]PerformanceReview, error)
	FindByManager(ctx context.Context, managerID string) ([]PerformanceReview, error)
	FindByCycle(ctx context.Context, cycleID string) ([]PerformanceReview, error)
	Update(ctx context.Context, rev *PerformanceReview) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{})
	if err != nil {
		return r
	}
	return &repository{db: gdb}
}

func (r *repository) FindByID(ctx context.Context, id string) (*PerformanceReview, error) {
	var rev PerformanceReview
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rev).Error
	return &rev, err
}

// FindByIDForUpdate locks the review row so two concurrent submissions
// cannot both pass the status check.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*PerformanceReview, error) {
	var rev PerformanceReview
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rev).Error
	return &rev, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]PerformanceReview, error) {
	var rows []PerformanceReview
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByManager(ctx context.Context, managerID string) ([]PerformanceReview, error) {
	var rows []PerformanceReview
	err := r.db.WithContext(ctx).
		Where("manager_id = ?", managerID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByCycle(ctx context.Context, cycleID string) ([]PerformanceReview, error) {
	var rows []PerformanceReview
	err := r.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, rev *PerformanceReview) error {
	return r.db.WithContext(ctx).Save(rev).Error
}
