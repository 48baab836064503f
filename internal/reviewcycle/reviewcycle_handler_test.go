package reviewcycle_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go-workforce/internal/reviewcycle"
	reviewcycleerrors "go-workforce/internal/reviewcycle/errors"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeService struct {
	createFn   func(ctx context.Context, actorID string, req reviewcycle.CreateReviewCycleRequest) (reviewcycle.ReviewCycleResponse, error)
	getAllFn   func(ctx context.Context, status string, year int) ([]reviewcycle.ReviewCycleResponse, error)
	getByIDFn  func(ctx context.Context, id string) (reviewcycle.ReviewCycleResponse, error)
	updateFn   func(ctx context.Context, actorID, id string, req reviewcycle.UpdateReviewCycleRequest) (reviewcycle.ReviewCycleResponse, error)
	activateFn func(ctx context.Context, actorID, id string) (reviewcycle.ActivationResult, error)
	closeFn    func(ctx context.Context, actorID, id string) (reviewcycle.ReviewCycleResponse, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeService) Create(ctx context.Context, actorID string, req reviewcycle.CreateReviewCycleRequest) (reviewcycle.ReviewCycleResponse, error) {
	return f.createFn(ctx, actorID, req)
}
func (f *fakeService) GetAll(ctx context.Context, status string, year int) ([]reviewcycle.ReviewCycleResponse, error) {
	return f.getAllFn(ctx, status, year)
}
func (f *fakeService) GetByID(ctx context.Context, id string) (reviewcycle.ReviewCycleResponse, error) {
	return f.getByIDFn(ctx, id)
}
func (f *fakeService) Update(ctx context.Context, actorID, id string, req reviewcycle.UpdateReviewCycleRequest) (reviewcycle.ReviewCycleResponse, error) {
	return f.updateFn(ctx, actorID, id, req)
}
func (f *fakeService) Activate(ctx context.Context, actorID, id string) (reviewcycle.ActivationResult, error) {
	return f.activateFn(ctx, actorID, id)
}
func (f *fakeService) Close(ctx context.Context, actorID, id string) (reviewcycle.ReviewCycleResponse, error) {
	return f.closeFn(ctx, actorID, id)
}
func (f *fakeService) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestHandler_Activate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()
	cycleID := uuid.New().String()

	svc := &fakeService{
		activateFn: func(ctx context.Context, aid, id string) (reviewcycle.ActivationResult, error) {
			assert.Equal(t, actorID, aid)
			assert.Equal(t, cycleID, id)
			return reviewcycle.ActivationResult{Status: reviewcycle.StatusActive, ReviewsCreated: 2, ReviewsSkipped: 1}, nil
		},
	}

	h := reviewcycle.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", actorID)
	c.Params = gin.Params{{Key: "id", Value: cycleID}}
	c.Request = httptest.NewRequest(http.MethodPost, "/review-cycles/"+cycleID+"/activate", nil)
	h.Activate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "\"reviews_created\":2")
	assert.Contains(t, w.Body.String(), "\"reviews_skipped\":1")
}

func TestHandler_Activate_CachesResultAndReleasesLock(t *testing.T) {
	gin.SetMode(gin.TestMode)
	actorID := uuid.New().String()
	cycleID := uuid.New().String()

	result := reviewcycle.ActivationResult{Status: reviewcycle.StatusActive, ReviewsCreated: 2, ReviewsSkipped: 1}
	svc := &fakeService{
		activateFn: func(ctx context.Context, aid, id string) (reviewcycle.ActivationResult, error) {
			return result, nil
		},
	}

	rdb, rmock := redismock.NewClientMock()
	h := reviewcycle.NewHandlerWithRedis(svc, rdb)

	cacheKey := "idemp:/review-cycles/:id/activate:" + actorID + ":retry-1"
	lockKey := cacheKey + ":lock"
	payload, err := json.Marshal(result)
	assert.NoError(t, err)
	rmock.ExpectSet(cacheKey, payload, 24*time.Hour).SetVal("OK")
	rmock.ExpectDel(lockKey).SetVal(1)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", actorID)
	c.Set("idempotency_cache_key", cacheKey)
	c.Set("idempotency_lock_key", lockKey)
	c.Params = gin.Params{{Key: "id", Value: cycleID}}
	c.Request = httptest.NewRequest(http.MethodPost, "/review-cycles/"+cycleID+"/activate", nil)
	h.Activate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestHandler_Activate_InvalidState(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeService{
		activateFn: func(ctx context.Context, actorID, id string) (reviewcycle.ActivationResult, error) {
			return reviewcycle.ActivationResult{}, reviewcycleerrors.ErrCycleNotPlanned
		},
	}

	h := reviewcycle.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", uuid.New().String())
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
	c.Request = httptest.NewRequest(http.MethodPost, "/review-cycles/x/activate", nil)
	h.Activate(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestHandler_Create_ValidationFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := reviewcycle.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("employee_id", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/review-cycles", strings.NewReader(`{"name":""}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetAll_BadYear(t *testing.T) {
	gin.SetMode(gin.TestMode)

	h := reviewcycle.NewHandler(&fakeService{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/review-cycles?year=notayear", nil)
	h.GetAll(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
