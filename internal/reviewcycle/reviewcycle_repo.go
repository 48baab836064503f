package reviewcycle

import (
	"context"
	"database/sql"

	"go-workforce/internal/employee"
	"go-workforce/internal/review"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=reviewcycle_repo.go -destination=mock/reviewcycle_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, c *ReviewCycle) error
	FindAll(ctx context.Context, status string, year int) ([]ReviewCycle, error)
	FindByID(ctx context.Context, id string) (*ReviewCycle, error)
	// FindByIDForUpdate takes a row lock so two concurrent activations
	// serialize on the cycle row.
	FindByIDForUpdate(ctx context.Context, id string) (*ReviewCycle, error)
	Update(ctx context.Context, c *ReviewCycle) error
	Delete(ctx context.Context, id string) error
	ListRoster(ctx context.Context) ([]RosterEntry, error)
	CreateReview(ctx context.Context, r *review.PerformanceReview) error
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

func (r *repository) Create(ctx context.Context, c *ReviewCycle) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindAll(ctx context.Context, status string, year int) ([]ReviewCycle, error) {
	q := r.db.WithContext(ctx).Order("year DESC, start_date DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if year != 0 {
		q = q.Where("year = ?", year)
	}

	var rows []ReviewCycle
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*ReviewCycle, error) {
	var c ReviewCycle
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	return &c, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*ReviewCycle, error) {
	var c ReviewCycle
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&c).Error
	return &c, err
}

func (r *repository) Update(ctx context.Context, c *ReviewCycle) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&ReviewCycle{}).Error
}

func (r *repository) ListRoster(ctx context.Context) ([]RosterEntry, error) {
	var rows []employee.Employee
	err := r.db.WithContext(ctx).
		Select("id", "employment_status", "manager_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	roster := make([]RosterEntry, len(rows))
	for i, e := range rows {
		roster[i] = RosterEntry{
			EmployeeID:       e.ID,
			EmploymentStatus: e.EmploymentStatus,
			ManagerID:        e.ManagerID,
		}
	}
	return roster, nil
}

func (r *repository) CreateReview(ctx context.Context, pr *review.PerformanceReview) error {
	return r.db.WithContext(ctx).Create(pr).Error
}
