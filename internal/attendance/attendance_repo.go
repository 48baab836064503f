package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rec *AttendanceRecord) error
	FindByID(ctx context.Context, id string) (*AttendanceRecord, error)
	FindByIDForUpdate(ctx context.Context, id string) (*AttendanceRecord, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	FindByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	FindPendingForManager(ctx context.Context, managerID string) ([]AttendanceRecord, error)
	GetRosterInfo(ctx context.Context, employeeID string) (*RosterInfo, error)
	Update(ctx context.Context, rec *AttendanceRecord) error
}

// RosterInfo is the slice of the employee roster attendance needs: who
// adjudicates the record and which holiday calendar applies.
type RosterInfo struct {
	ManagerID   *uuid.UUID
	CountryCode string
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

func (r *repository) Create(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ? AND date = ?", employeeID, date.Format("2006-01-02")).
		First(&rec).Error
	return &rec, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	q := r.db.WithContext(ctx).Where("employee_id = ?", employeeID)
	if !from.IsZero() {
		q = q.Where("date >= ?", from.Format("2006-01-02"))
	}
	if !to.IsZero() {
		q = q.Where("date <= ?", to.Format("2006-01-02"))
	}
	err := q.Order("date DESC").Find(&rows).Error
	return rows, err
}

// FindPendingForManager joins through the roster: a manager adjudicates the
// records of their direct reports whose manager slot is still pending.
func (r *repository) FindPendingForManager(ctx context.Context, managerID string) ([]AttendanceRecord, error) {
	var rows []AttendanceRecord
	err := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = attendance_records.employee_id").
		Where("employees.manager_id = ?", managerID).
		Where("attendance_records.manager_approval_status = ?", ApprovalPending).
		Where("attendance_records.status IN ?", []string{StatusShortfall, StatusPendingApproval}).
		Order("attendance_records.date ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) GetRosterInfo(ctx context.Context, employeeID string) (*RosterInfo, error) {
	var row struct {
		ManagerID   *uuid.UUID
		CountryCode string
	}
	err := r.db.WithContext(ctx).
		Table("employees").
		Select("manager_id", "country_code").
		Where("id = ?", employeeID).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	return &RosterInfo{ManagerID: row.ManagerID, CountryCode: row.CountryCode}, nil
}

func (r *repository) Update(ctx context.Context, rec *AttendanceRecord) error {
	return r.db.WithContext(ctx).Save(rec).Error
}
