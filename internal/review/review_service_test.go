package review

import (
	"context"
	"database/sql"
	"testing"

	"go-workforce/internal/domain"
	reviewerrors "go-workforce/internal/review/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	withTxFn            func(tx *sql.Tx) Repository
	findByIDFn          func(ctx context.Context, id string) (*PerformanceReview, error)
	findByIDForUpdateFn func(ctx context.Context, id string) (*PerformanceReview, error)
	findByEmployeeFn    func(ctx context.Context, employeeID string) ([]PerformanceReview, error)
	findByManagerFn     func(ctx context.Context, managerID string) ([]PerformanceReview, error)
	findByCycleFn       func(ctx context.Context, cycleID string) ([]PerformanceReview, error)
	updateFn            func(ctx context.Context, rev *PerformanceReview) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*PerformanceReview, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByIDForUpdate(ctx context.Context, id string) (*PerformanceReview, error) {
	return f.findByIDForUpdateFn(ctx, id)
}
func (f *fakeRepo) FindByEmployee(ctx context.Context, employeeID string) ([]PerformanceReview, error) {
	return f.findByEmployeeFn(ctx, employeeID)
}
func (f *fakeRepo) FindByManager(ctx context.Context, managerID string) ([]PerformanceReview, error) {
	return f.findByManagerFn(ctx, managerID)
}
func (f *fakeRepo) FindByCycle(ctx context.Context, cycleID string) ([]PerformanceReview, error) {
	return f.findByCycleFn(ctx, cycleID)
}
func (f *fakeRepo) Update(ctx context.Context, rev *PerformanceReview) error {
	return f.updateFn(ctx, rev)
}

func newFakeRepo(rev *PerformanceReview) *fakeRepo {
	f := &fakeRepo{}
	f.withTxFn = func(tx *sql.Tx) Repository { return f }
	f.findByIDForUpdateFn = func(ctx context.Context, id string) (*PerformanceReview, error) {
		if rev == nil {
			return nil, gorm.ErrRecordNotFound
		}
		return rev, nil
	}
	f.findByIDFn = f.findByIDForUpdateFn
	f.updateFn = func(ctx context.Context, r *PerformanceReview) error { return nil }
	return f
}

func TestService_SubmitSelfAssessment(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.SubmitSelfAssessment(context.Background(), rev.EmployeeID.String(), rev.ID.String(), SubmitSelfAssessmentRequest{
		SelfAssessment: "Shipped the reporting pipeline on time.",
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusPendingManagerReview, resp.Status)
	assert.NotNil(t, resp.SubmittedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SubmitSelfAssessment_WrongActorIsForbidden(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.SubmitSelfAssessment(context.Background(), uuid.NewString(), rev.ID.String(), SubmitSelfAssessmentRequest{
		SelfAssessment: "Shipped the reporting pipeline on time.",
	})

	// Wrong actor is a permission failure, not a lifecycle one.
	assert.ErrorIs(t, err, reviewerrors.ErrNotReviewSubject)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SubmitSelfAssessment_WrongStateIsConflict(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	rev.Status = StatusCompleted
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.SubmitSelfAssessment(context.Background(), rev.EmployeeID.String(), rev.ID.String(), SubmitSelfAssessmentRequest{
		SelfAssessment: "Shipped the reporting pipeline on time.",
	})

	assert.ErrorIs(t, err, reviewerrors.ErrSelfAssessmentNotOpen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SubmitManagerReview(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	rev.Status = StatusPendingManagerReview
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.SubmitManagerReview(context.Background(), rev.ManagerID.String(), rev.ID.String(), SubmitManagerReviewRequest{
		ManagerComments: "Strong quarter with consistent delivery.",
		Rating:          4,
		Strengths:       []string{"delivery"},
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, resp.Status)
	assert.Equal(t, 4, *resp.Rating)
	assert.NotNil(t, resp.ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_SubmitManagerReview_NotAssignedManager(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	rev.Status = StatusPendingManagerReview
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.SubmitManagerReview(context.Background(), uuid.NewString(), rev.ID.String(), SubmitManagerReviewRequest{
		ManagerComments: "Strong quarter with consistent delivery.",
		Rating:          4,
	})

	assert.ErrorIs(t, err, reviewerrors.ErrNotReviewManager)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Acknowledge(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	rev.Status = StatusCompleted
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Acknowledge(context.Background(), rev.EmployeeID.String(), rev.ID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusClosed, resp.Status)
	assert.NotNil(t, resp.AcknowledgedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Acknowledge_NotCompleted(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	svc := NewService(db, newFakeRepo(rev))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Acknowledge(context.Background(), rev.EmployeeID.String(), rev.ID.String())

	assert.ErrorIs(t, err, reviewerrors.ErrReviewNotCompleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_ParticipantsAndHROnly(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	rev := NewFromActivation(uuid.New(), uuid.New(), uuid.New())
	svc := NewService(db, newFakeRepo(rev))
	ctx := context.Background()

	_, err := svc.GetByID(ctx, rev.EmployeeID.String(), domain.RoleEmployee, rev.ID.String())
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, rev.ManagerID.String(), domain.RoleManager, rev.ID.String())
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.NewString(), domain.RoleHR, rev.ID.String())
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, uuid.NewString(), domain.RoleEmployee, rev.ID.String())
	assert.ErrorIs(t, err, reviewerrors.ErrNotReviewParticipant)
}

func TestService_ReviewNotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, newFakeRepo(nil))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Acknowledge(context.Background(), uuid.NewString(), uuid.NewString())

	assert.ErrorIs(t, err, reviewerrors.ErrReviewNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
