package reviewcycle

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/review"
	reviewcycleerrors "go-workforce/internal/reviewcycle/errors"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=reviewcycle_service.go -destination=mock/reviewcycle_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actorID string, req CreateReviewCycleRequest) (ReviewCycleResponse, error)
	GetAll(ctx context.Context, status string, year int) ([]ReviewCycleResponse, error)
	GetByID(ctx context.Context, id string) (ReviewCycleResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateReviewCycleRequest) (ReviewCycleResponse, error)
	Activate(ctx context.Context, actorID, id string) (ActivationResult, error)
	Close(ctx context.Context, actorID, id string) (ReviewCycleResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, logger...)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("reviewcycle.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reviewcycle.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateReviewCycleRequest) (ReviewCycleResponse, error) {
	s.logger.Debug("create review cycle requested",
		zap.String("name", req.Name),
		zap.Int("year", req.Year),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrInvalidActorID
	}

	startDate, endDate, err := parseDateWindow(req.StartDate, req.EndDate)
	if err != nil {
		return ReviewCycleResponse{}, err
	}
	selfDue, err := parseOptionalDate(req.SelfAssessmentDue)
	if err != nil {
		return ReviewCycleResponse{}, err
	}
	managerDue, err := parseOptionalDate(req.ManagerReviewDue)
	if err != nil {
		return ReviewCycleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create review cycle begin tx failed", zap.Error(err))
		return ReviewCycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Initial status is always PLANNED regardless of caller input.
	cycle := &ReviewCycle{
		ID:                uuid.New(),
		Name:              strings.TrimSpace(req.Name),
		Year:              req.Year,
		Description:       req.Description,
		StartDate:         startDate,
		EndDate:           endDate,
		SelfAssessmentDue: selfDue,
		ManagerReviewDue:  managerDue,
		Status:            StatusPlanned,
		CreatedBy:         actorUUID,
	}

	if err := qtx.Create(ctx, cycle); err != nil {
		s.logger.Error("create review cycle persist failed", zap.Error(err))
		return ReviewCycleResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create review cycle commit failed", zap.Error(err))
		return ReviewCycleResponse{}, err
	}

	s.logger.Info("create review cycle success",
		zap.String("cycle_id", cycle.ID.String()),
		zap.String("name", cycle.Name),
		zap.Int("year", cycle.Year),
	)
	return mapToResponse(*cycle), nil
}

func (s *service) GetAll(ctx context.Context, status string, year int) ([]ReviewCycleResponse, error) {
	rows, err := s.repo.FindAll(ctx, status, year)
	if err != nil {
		return nil, err
	}
	resp := make([]ReviewCycleResponse, len(rows))
	for i, c := range rows {
		resp[i] = mapToResponse(c)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ReviewCycleResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrInvalidCycleID
	}
	cycle, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewCycleResponse{}, reviewcycleerrors.ErrCycleNotFound
		}
		return ReviewCycleResponse{}, err
	}
	return mapToResponse(*cycle), nil
}

// Update mutates the window and description. Name and year are immutable
// after creation. A PLANNED cycle accepts every field; an ACTIVE cycle only
// accepts moving the two review due dates; a CLOSED cycle accepts nothing.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdateReviewCycleRequest) (ReviewCycleResponse, error) {
	s.logger.Debug("update review cycle requested",
		zap.String("cycle_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrInvalidCycleID
	}

	startDate, endDate, err := parseDateWindow(req.StartDate, req.EndDate)
	if err != nil {
		return ReviewCycleResponse{}, err
	}
	selfDue, err := parseOptionalDate(req.SelfAssessmentDue)
	if err != nil {
		return ReviewCycleResponse{}, err
	}
	managerDue, err := parseOptionalDate(req.ManagerReviewDue)
	if err != nil {
		return ReviewCycleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update review cycle begin tx failed", zap.Error(err))
		return ReviewCycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cycle, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewCycleResponse{}, reviewcycleerrors.ErrCycleNotFound
		}
		return ReviewCycleResponse{}, err
	}

	switch cycle.Status {
	case StatusClosed:
		return ReviewCycleResponse{}, reviewcycleerrors.ErrCycleClosedImmutable
	case StatusActive:
		if !startDate.Equal(cycle.StartDate) || !endDate.Equal(cycle.EndDate) || req.Description != cycle.Description {
			return ReviewCycleResponse{}, reviewcycleerrors.ErrActiveCycleFieldImmutable
		}
	}

	cycle.Description = req.Description
	cycle.StartDate = startDate
	cycle.EndDate = endDate
	cycle.SelfAssessmentDue = selfDue
	cycle.ManagerReviewDue = managerDue
	cycle.UpdatedBy = &actorUUID

	if err := qtx.Update(ctx, cycle); err != nil {
		s.logger.Error("update review cycle persist failed", zap.String("cycle_id", id), zap.Error(err))
		return ReviewCycleResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update review cycle commit failed", zap.String("cycle_id", id), zap.Error(err))
		return ReviewCycleResponse{}, err
	}

	s.logger.Info("update review cycle success", zap.String("cycle_id", id))
	return mapToResponse(*cycle), nil
}

// Activate flips the cycle to ACTIVE and fans out one performance review per
// eligible employee in a single transaction. The status flip and every
// insert commit together or not at all: an unexpected failure after k
// inserts rolls back all k and leaves the cycle PLANNED. Only two cases are
// absorbed as skips rather than aborting: a review that already exists for
// the (employee, cycle) pair, and a candidate without a manager.
func (s *service) Activate(ctx context.Context, actorID, id string) (ActivationResult, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("activate review cycle requested",
		zap.String("request_id", rid),
		zap.String("cycle_id", id),
		zap.String("actor_id", actorID),
	)

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ActivationResult{}, reviewcycleerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ActivationResult{}, reviewcycleerrors.ErrInvalidCycleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("activate review cycle begin tx failed", zap.Error(err))
		return ActivationResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Row lock serializes concurrent activations: the loser blocks here,
	// then observes ACTIVE and fails the transition check below.
	cycle, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ActivationResult{}, reviewcycleerrors.ErrCycleNotFound
		}
		return ActivationResult{}, err
	}
	if !isAllowedStatusTransition(cycle.Status, StatusActive) {
		s.logger.Warn("activate review cycle invalid transition",
			zap.String("cycle_id", id),
			zap.String("from_status", cycle.Status),
		)
		return ActivationResult{}, reviewcycleerrors.ErrCycleNotPlanned
	}

	cycle.Status = StatusActive
	cycle.UpdatedBy = &actorUUID
	if err := qtx.Update(ctx, cycle); err != nil {
		return ActivationResult{}, reviewcycleerrors.ErrActivationAborted.WrapCause(err)
	}

	// Eligibility is computed inside the transaction so the fan-out sees
	// one consistent roster snapshot.
	roster, err := qtx.ListRoster(ctx)
	if err != nil {
		return ActivationResult{}, reviewcycleerrors.ErrActivationAborted.WrapCause(err)
	}
	candidates := ResolveEligibility(roster)

	created, skipped := 0, 0
	for _, candidate := range candidates {
		if candidate.ManagerID == nil {
			// No reviewer to route the review to; exclusion, not an error.
			skipped++
			continue
		}

		rev := review.NewFromActivation(cycle.ID, candidate.EmployeeID, *candidate.ManagerID)
		if err := qtx.CreateReview(ctx, rev); err != nil {
			if isDuplicateReview(err) {
				skipped++
				continue
			}
			s.logger.Error("activate review cycle fan-out insert failed",
				zap.String("cycle_id", id),
				zap.String("employee_id", candidate.EmployeeID.String()),
				zap.Error(err),
			)
			return ActivationResult{}, reviewcycleerrors.ErrActivationAborted.WrapCause(err)
		}
		created++
	}

	if s.outbox != nil {
		event := events.ReviewCycleActivatedEvent{
			EventType:      "review_cycle_activated",
			RequestID:      rid,
			CycleID:        cycle.ID.String(),
			CycleName:      cycle.Name,
			Year:           cycle.Year,
			ReviewsCreated: created,
			ReviewsSkipped: skipped,
			ActivatedBy:    actorID,
			OccurredAt:     time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return ActivationResult{}, reviewcycleerrors.ErrActivationAborted.WrapCause(err)
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "review_cycle",
			AggregateID:   cycle.ID.String(),
			EventType:     event.EventType,
			Topic:         events.ReviewCycleActivatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return ActivationResult{}, reviewcycleerrors.ErrActivationAborted.WrapCause(err)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("activate review cycle commit failed", zap.String("cycle_id", id), zap.Error(err))
		return ActivationResult{}, reviewcycleerrors.ErrActivationAborted.WrapCause(err)
	}

	s.logger.Info("activate review cycle success",
		zap.String("request_id", rid),
		zap.String("cycle_id", id),
		zap.Int("reviews_created", created),
		zap.Int("reviews_skipped", skipped),
	)
	return ActivationResult{Status: StatusActive, ReviewsCreated: created, ReviewsSkipped: skipped}, nil
}

func (s *service) Close(ctx context.Context, actorID, id string) (ReviewCycleResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrInvalidCycleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReviewCycleResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cycle, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReviewCycleResponse{}, reviewcycleerrors.ErrCycleNotFound
		}
		return ReviewCycleResponse{}, err
	}
	if !isAllowedStatusTransition(cycle.Status, StatusClosed) {
		return ReviewCycleResponse{}, reviewcycleerrors.ErrCycleNotActive
	}

	cycle.Status = StatusClosed
	cycle.UpdatedBy = &actorUUID

	if err := qtx.Update(ctx, cycle); err != nil {
		return ReviewCycleResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ReviewCycleResponse{}, err
	}

	s.logger.Info("close review cycle success", zap.String("cycle_id", id))
	return mapToResponse(*cycle), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return reviewcycleerrors.ErrInvalidCycleID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cycle, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return reviewcycleerrors.ErrCycleNotFound
		}
		return err
	}
	if cycle.Status != StatusPlanned {
		return reviewcycleerrors.ErrCycleNotPlanned
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}
	return tx.Commit()
}

func parseDateWindow(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, time.Time{}, reviewcycleerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, time.Time{}, reviewcycleerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, reviewcycleerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}

func parseOptionalDate(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *v)
	if err != nil {
		return nil, reviewcycleerrors.ErrInvalidDateFormat
	}
	return &t, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_review_cycles_name_year" {
			return reviewcycleerrors.ErrCycleNameYearExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_review_cycles_name_year") {
		return reviewcycleerrors.ErrCycleNameYearExists
	}

	return err
}

// isDuplicateReview recognizes the unique (cycle_id, employee_id) violation
// the fan-out converts to a skip instead of an abort.
func isDuplicateReview(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_reviews_cycle_employee"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_reviews_cycle_employee")
}

func mapToResponse(c ReviewCycle) ReviewCycleResponse {
	resp := ReviewCycleResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Year:        c.Year,
		Description: c.Description,
		StartDate:   c.StartDate.Format("2006-01-02"),
		EndDate:     c.EndDate.Format("2006-01-02"),
		Status:      c.Status,
		CreatedBy:   c.CreatedBy.String(),
	}
	if c.SelfAssessmentDue != nil {
		v := c.SelfAssessmentDue.Format("2006-01-02")
		resp.SelfAssessmentDue = &v
	}
	if c.ManagerReviewDue != nil {
		v := c.ManagerReviewDue.Format("2006-01-02")
		resp.ManagerReviewDue = &v
	}
	if c.UpdatedBy != nil {
		v := c.UpdatedBy.String()
		resp.UpdatedBy = &v
	}
	return resp
}
