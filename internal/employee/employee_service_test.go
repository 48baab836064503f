package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	employeeerrors "go-workforce/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn      func(tx *sql.Tx) Repository
	createFn      func(ctx context.Context, e *Employee) error
	findAllFn     func(ctx context.Context) ([]Employee, error)
	findOptionsFn func(ctx context.Context) ([]Employee, error)
	findByIDFn    func(ctx context.Context, id string) (*Employee, error)
	existsFn      func(ctx context.Context, id string) (bool, error)
	updateFn      func(ctx context.Context, e *Employee) error
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                  { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error { return f.createFn(ctx, e) }
func (f *fakeRepo) FindAll(ctx context.Context) ([]Employee, error) {
	return f.findAllFn(ctx)
}
func (f *fakeRepo) FindOptions(ctx context.Context) ([]Employee, error) {
	return f.findOptionsFn(ctx)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.existsFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error { return f.updateFn(ctx, e) }
func (f *fakeRepo) Delete(ctx context.Context, id string) error   { return f.deleteFn(ctx, id) }

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func TestService_Create_GeneratesEmployeeNumber(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	var created Employee
	repo.createFn = func(ctx context.Context, e *Employee) error { created = *e; return nil }

	svc := NewService(db, repo, &fakeCounter{}, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName:         "Ayu Lestari",
		Email:            "ayu@example.com",
		EmploymentStatus: EmploymentActive,
		HireDate:         "2024-02-01",
	})

	assert.NoError(t, err)
	assert.Equal(t, "EMP-000001", created.EmployeeNumber)
	assert.Equal(t, "EMP-000001", resp.EmployeeNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_SelfManagerOnUpdate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	existing := &Employee{
		ID:               uuid.New(),
		EmployeeNumber:   "EMP-000007",
		FullName:         "Ayu Lestari",
		Email:            "ayu@example.com",
		EmploymentStatus: EmploymentActive,
		HireDate:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Employee, error) { return existing, nil }
	repo.existsFn = func(ctx context.Context, id string) (bool, error) { return true, nil }

	svc := NewService(db, repo, &fakeCounter{}, nil)

	selfID := existing.ID.String()
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Update(context.Background(), existing.ID.String(), UpdateEmployeeRequest{
		FullName:         existing.FullName,
		Email:            existing.Email,
		EmployeeNumber:   existing.EmployeeNumber,
		EmploymentStatus: existing.EmploymentStatus,
		HireDate:         "2024-02-01",
		ManagerID:        &selfID,
	})

	assert.ErrorIs(t, err, employeeerrors.ErrSelfManager)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetOptions_UsesCache(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	cached := []EmployeeResponse{{ID: uuid.NewString(), FullName: "Ayu Lestari"}}
	payload, _ := json.Marshal(cached)
	redisMock.ExpectGet(OptionsCacheKey).SetVal(string(payload))

	repoHit := false
	repo := &fakeRepo{}
	repo.findOptionsFn = func(ctx context.Context) ([]Employee, error) {
		repoHit = true
		return nil, nil
	}

	svc := NewService(db, repo, &fakeCounter{}, rdb)

	resp, err := svc.GetOptions(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, cached, resp)
	assert.False(t, repoHit, "cache hit must not touch the repository")
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_GetOptions_CacheMissFillsCache(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	rows := []Employee{{
		ID:               uuid.New(),
		EmployeeNumber:   "EMP-000001",
		FullName:         "Ayu Lestari",
		Email:            "ayu@example.com",
		EmploymentStatus: EmploymentActive,
		CountryCode:      "ID",
		HireDate:         time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}}
	expected := mapToListResponse(rows)
	payload, _ := json.Marshal(expected)

	redisMock.ExpectGet(OptionsCacheKey).RedisNil()
	redisMock.ExpectSet(OptionsCacheKey, payload, time.Hour).SetVal("OK")

	repo := &fakeRepo{}
	repo.findOptionsFn = func(ctx context.Context) ([]Employee, error) { return rows, nil }

	svc := NewService(db, repo, &fakeCounter{}, rdb)

	resp, err := svc.GetOptions(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expected, resp)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
