package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn                         func(tx *sql.Tx) Repository
	createFn                         func(ctx context.Context, rec *AttendanceRecord) error
	findByIDFn                       func(ctx context.Context, id string) (*AttendanceRecord, error)
	findByIDForUpdateFn              func(ctx context.Context, id string) (*AttendanceRecord, error)
	findByEmployeeAndDateFn          func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	findByEmployeeAndDateForUpdateFn func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error)
	findByEmployeeFn                 func(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error)
	findPendingForManagerFn          func(ctx context.Context, managerID string) ([]AttendanceRecord, error)
	getRosterInfoFn                  func(ctx context.Context, employeeID string) (*RosterInfo, error)
	updateFn                         func(ctx context.Context, rec *AttendanceRecord) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, rec *AttendanceRecord) error {
	return f.createFn(ctx, rec)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*AttendanceRecord, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, id string) (*AttendanceRecord, error) {
	return f.findByIDForUpdateFn(ctx, id)
}
func (f *fakeRepo) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	return f.findByEmployeeAndDateFn(ctx, employeeID, date)
}
func (f *fakeRepo) FindByEmployeeAndDateForUpdate(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
	return f.findByEmployeeAndDateForUpdateFn(ctx, employeeID, date)
}
func (f *fakeRepo) FindByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]AttendanceRecord, error) {
	return f.findByEmployeeFn(ctx, employeeID, from, to)
}
func (f *fakeRepo) FindPendingForManager(ctx context.Context, managerID string) ([]AttendanceRecord, error) {
	return f.findPendingForManagerFn(ctx, managerID)
}
func (f *fakeRepo) GetRosterInfo(ctx context.Context, employeeID string) (*RosterInfo, error) {
	return f.getRosterInfoFn(ctx, employeeID)
}
func (f *fakeRepo) Update(ctx context.Context, rec *AttendanceRecord) error {
	return f.updateFn(ctx, rec)
}

type workdayCalendar struct{}

func (workdayCalendar) IsNonWorkingDay(ctx context.Context, date time.Time, countryCode string) (bool, error) {
	return false, nil
}

// memoryRepo keeps one record and answers lookups against it, which is
// enough state for the single-employee single-day scenarios here.
func newMemoryRepo(managerID *uuid.UUID) *fakeRepo {
	var saved *AttendanceRecord
	f := &fakeRepo{}
	f.withTxFn = func(tx *sql.Tx) Repository { return f }
	f.createFn = func(ctx context.Context, rec *AttendanceRecord) error {
		if saved != nil {
			return &pgconn.PgError{Code: "23505", ConstraintName: "uq_attendance_employee_date"}
		}
		copied := *rec
		saved = &copied
		return nil
	}
	f.findByEmployeeAndDateFn = func(ctx context.Context, employeeID string, date time.Time) (*AttendanceRecord, error) {
		if saved == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return saved, nil
	}
	f.findByEmployeeAndDateForUpdateFn = f.findByEmployeeAndDateFn
	f.findByIDForUpdateFn = func(ctx context.Context, id string) (*AttendanceRecord, error) {
		if saved == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return saved, nil
	}
	f.findByIDFn = f.findByIDForUpdateFn
	f.getRosterInfoFn = func(ctx context.Context, employeeID string) (*RosterInfo, error) {
		return &RosterInfo{ManagerID: managerID, CountryCode: "ID"}, nil
	}
	f.updateFn = func(ctx context.Context, rec *AttendanceRecord) error {
		copied := *rec
		saved = &copied
		return nil
	}
	return f
}

func newTestService(db *sql.DB, repo Repository, at time.Time) *service {
	svc := NewService(Dependencies{
		DB:       db,
		Repo:     repo,
		Calendar: workdayCalendar{},
		Config:   DefaultConfig(),
	}).(*service)
	svc.now = func() time.Time { return at }
	return svc
}

func onDay(hour, minute int) time.Time {
	return time.Date(2025, 6, 2, hour, minute, 0, 0, time.UTC)
}

func TestService_CheckIn_OnTime(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(9, 45))

	resp, err := svc.CheckIn(context.Background(), uuid.NewString())

	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.False(t, resp.IsHalfDay)
	assert.NotNil(t, resp.CheckInTime)
}

func TestService_CheckIn_TooEarly(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(9, 15))

	_, err := svc.CheckIn(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, attendanceerrors.ErrCheckInTooEarly)
}

func TestService_CheckIn_LateArrivalDegradesToHalfDay(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(11, 45))

	resp, err := svc.CheckIn(context.Background(), uuid.NewString())

	// Late arrival degrades the day; it never blocks the check-in.
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.True(t, resp.IsHalfDay)
}

func TestService_CheckIn_Duplicate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.NewString()
	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(9, 45))

	_, err := svc.CheckIn(context.Background(), employeeID)
	assert.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), employeeID)
	assert.ErrorIs(t, err, attendanceerrors.ErrDuplicateRecord)
}

func TestService_CheckOut_HalfDayShortfall(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.NewString()
	repo := newMemoryRepo(nil)

	svc := newTestService(db, repo, onDay(11, 45))
	_, err := svc.CheckIn(context.Background(), employeeID)
	assert.NoError(t, err)

	// 4.5 worked hours on a half day sits below the 5h threshold.
	svc.now = func() time.Time { return onDay(16, 15) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckOut(context.Background(), employeeID)

	assert.NoError(t, err)
	assert.Equal(t, StatusShortfall, resp.Status)
	assert.Equal(t, 4.5, *resp.TotalHours)
	assert.Equal(t, ApprovalPending, *resp.ManagerApproval.Status)
	assert.Nil(t, resp.FinalOutcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_FullDay(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.NewString()
	repo := newMemoryRepo(nil)

	svc := newTestService(db, repo, onDay(9, 45))
	_, err := svc.CheckIn(context.Background(), employeeID)
	assert.NoError(t, err)

	svc.now = func() time.Time { return onDay(19, 0) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckOut(context.Background(), employeeID)

	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.Equal(t, 9.25, *resp.TotalHours)
	assert.Equal(t, OutcomeFullDay, *resp.FinalOutcome)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_TwoDecimalHours(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.NewString()
	repo := newMemoryRepo(nil)

	svc := newTestService(db, repo, onDay(9, 45))
	_, err := svc.CheckIn(context.Background(), employeeID)
	assert.NoError(t, err)

	// 9h20m = 9.333... hours, rounded to 9.33.
	svc.now = func() time.Time { return onDay(19, 5) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckOut(context.Background(), employeeID)

	assert.NoError(t, err)
	assert.Equal(t, 9.33, *resp.TotalHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_WithoutOpenRecord(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(17, 0))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.CheckOut(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, attendanceerrors.ErrNoOpenRecord)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_AlreadyClosed(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.NewString()
	repo := newMemoryRepo(nil)

	svc := newTestService(db, repo, onDay(9, 45))
	_, err := svc.CheckIn(context.Background(), employeeID)
	assert.NoError(t, err)

	svc.now = func() time.Time { return onDay(19, 0) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.CheckOut(context.Background(), employeeID)
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.CheckOut(context.Background(), employeeID)
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyCheckedOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RequestHalfDay(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(8, 0))

	resp, err := svc.RequestHalfDay(context.Background(), uuid.NewString(), RequestHalfDayRequest{
		Date:  "2025-06-02",
		Notes: "medical appointment",
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, resp.Status)
	assert.True(t, resp.IsHalfDay)
	assert.Equal(t, ApprovalPending, *resp.ManagerApproval.Status)
}

func TestService_RequestHalfDay_DateTaken(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.NewString()
	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(9, 45))

	_, err := svc.CheckIn(context.Background(), employeeID)
	assert.NoError(t, err)

	_, err = svc.RequestHalfDay(context.Background(), employeeID, RequestHalfDayRequest{
		Date:  "2025-06-02",
		Notes: "medical appointment",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrDuplicateRecord)
}

func TestService_RequestCorrection_ReopensAdjudication(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New()
	repo := newMemoryRepo(nil)

	svc := newTestService(db, repo, onDay(9, 45))
	checkedIn, err := svc.CheckIn(context.Background(), employeeID.String())
	assert.NoError(t, err)

	requestedOut := onDay(19, 0).Format(time.RFC3339)
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RequestCorrection(context.Background(), employeeID.String(), checkedIn.ID, RequestCorrectionRequest{
		Type:              CorrectionTypeCheckOut,
		Reason:            "forgot to badge out",
		RequestedCheckOut: &requestedOut,
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, resp.Status)
	assert.Equal(t, ApprovalPending, *resp.Correction.Status)
	assert.Equal(t, ApprovalPending, *resp.ManagerApproval.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CheckOut_PendingAdjudicationKeepsOutcomeOpen(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New()
	repo := newMemoryRepo(nil)

	svc := newTestService(db, repo, onDay(9, 45))
	checkedIn, err := svc.CheckIn(context.Background(), employeeID.String())
	assert.NoError(t, err)

	requestedIn := onDay(9, 0).Format(time.RFC3339)
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.RequestCorrection(context.Background(), employeeID.String(), checkedIn.ID, RequestCorrectionRequest{
		Type:             CorrectionTypeCheckIn,
		Reason:           "badge reader failure",
		RequestedCheckIn: &requestedIn,
	})
	assert.NoError(t, err)

	// Threshold is met, but the record sits in the manager's queue: the
	// manager decision settles the outcome, not the checkout.
	svc.now = func() time.Time { return onDay(19, 0) }
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.CheckOut(context.Background(), employeeID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingApproval, resp.Status)
	assert.Equal(t, ApprovalPending, *resp.ManagerApproval.Status)
	assert.Nil(t, resp.FinalOutcome)
	assert.Equal(t, 9.25, *resp.TotalHours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type restDayCalendar struct{}

func (restDayCalendar) IsNonWorkingDay(ctx context.Context, date time.Time, countryCode string) (bool, error) {
	return true, nil
}

func TestService_RequestHalfDay_NonWorkingDay(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(8, 0))
	svc.calendar = restDayCalendar{}

	_, err := svc.RequestHalfDay(context.Background(), uuid.NewString(), RequestHalfDayRequest{
		Date:  "2025-06-07",
		Notes: "family event",
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrNonWorkingDay)
}

func TestService_RequestCorrection_NotOwner(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := newMemoryRepo(nil)
	svc := newTestService(db, repo, onDay(9, 45))

	checkedIn, err := svc.CheckIn(context.Background(), uuid.NewString())
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.RequestCorrection(context.Background(), uuid.NewString(), checkedIn.ID, RequestCorrectionRequest{
		Type:   CorrectionTypeCheckIn,
		Reason: "badge reader failure",
	})

	assert.ErrorIs(t, err, attendanceerrors.ErrNotRecordOwner)
	assert.NoError(t, mock.ExpectationsWereMet())
}
