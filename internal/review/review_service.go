package review

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-workforce/internal/domain"
	reviewerrors "go-workforce/internal/review/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=review_service.go -destination=mock/review_service_mock.go -package=mock
type Service interface {
	ListMine(ctx context.Context, employeeID string) ([]PerformanceReviewResponse, error)
	ListTeam(ctx context.Context, managerID string) ([]PerformanceReviewResponse, error)
	ListByCycle(ctx context.Context, cycleID string) ([]PerformanceReviewResponse, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (PerformanceReviewResponse, error)
	SubmitSelfAssessment(ctx context.Context, actorID, id string, req SubmitSelfAssessmentRequest) (PerformanceReviewResponse, error)
	SubmitManagerReview(ctx context.Context, actorID, id string, req SubmitManagerReviewRequest) (PerformanceReviewResponse, error)
	Acknowledge(ctx context.Context, actorID, id string) (PerformanceReviewResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("review.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("review.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) ListMine(ctx context.Context, employeeID string) ([]PerformanceReviewResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, reviewerrors.ErrInvalidActorID
	}
	rows, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) ListTeam(ctx context.Context, managerID string) ([]PerformanceReviewResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, reviewerrors.ErrInvalidActorID
	}
	rows, err := s.repo.FindByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) ListByCycle(ctx context.Context, cycleID string) ([]PerformanceReviewResponse, error) {
	if _, err := uuid.Parse(cycleID); err != nil {
		return nil, reviewerrors.ErrInvalidReviewID
	}
	rows, err := s.repo.FindByCycle(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

// GetByID restricts visibility to participants: the reviewed employee, the
// assigned manager, and HR. Authorization on WHICH review is data-dependent,
// so it lives here rather than in the route-level policy.
func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (PerformanceReviewResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PerformanceReviewResponse{}, reviewerrors.ErrInvalidReviewID
	}

	rev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PerformanceReviewResponse{}, reviewerrors.ErrReviewNotFound
		}
		return PerformanceReviewResponse{}, err
	}

	isParticipant := rev.EmployeeID.String() == actorID || rev.ManagerID.String() == actorID
	if !isParticipant && actorRole != domain.RoleHR && actorRole != domain.RoleAdmin {
		return PerformanceReviewResponse{}, reviewerrors.ErrNotReviewParticipant
	}

	return mapToResponse(*rev), nil
}

// SubmitSelfAssessment moves PENDING_SELF_ASSESSMENT to
// PENDING_MANAGER_REVIEW. A wrong actor is a permission failure; a wrong
// status is a lifecycle failure. The two never collapse into one error.
func (s *service) SubmitSelfAssessment(ctx context.Context, actorID, id string, req SubmitSelfAssessmentRequest) (PerformanceReviewResponse, error) {
	return s.transition(ctx, id, func(rev *PerformanceReview) error {
		if rev.EmployeeID.String() != actorID {
			return reviewerrors.ErrNotReviewSubject
		}
		if !isAllowedStatusTransition(rev.Status, StatusPendingManagerReview) {
			return reviewerrors.ErrSelfAssessmentNotOpen
		}

		now := time.Now().UTC()
		rev.SelfAssessment = &req.SelfAssessment
		rev.SubmittedAt = &now
		rev.Status = StatusPendingManagerReview
		return nil
	})
}

// SubmitManagerReview moves PENDING_MANAGER_REVIEW to COMPLETED.
func (s *service) SubmitManagerReview(ctx context.Context, actorID, id string, req SubmitManagerReviewRequest) (PerformanceReviewResponse, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return PerformanceReviewResponse{}, reviewerrors.ErrInvalidRating
	}

	return s.transition(ctx, id, func(rev *PerformanceReview) error {
		if rev.ManagerID.String() != actorID {
			return reviewerrors.ErrNotReviewManager
		}
		if !isAllowedStatusTransition(rev.Status, StatusCompleted) {
			return reviewerrors.ErrManagerReviewNotOpen
		}

		now := time.Now().UTC()
		rating := req.Rating
		rev.ManagerComments = &req.ManagerComments
		rev.Rating = &rating
		rev.Strengths = req.Strengths
		rev.DevelopmentAreas = req.DevelopmentAreas
		rev.ReviewedAt = &now
		rev.Status = StatusCompleted
		return nil
	})
}

// Acknowledge closes a COMPLETED review once the employee has seen the
// outcome.
func (s *service) Acknowledge(ctx context.Context, actorID, id string) (PerformanceReviewResponse, error) {
	return s.transition(ctx, id, func(rev *PerformanceReview) error {
		if rev.EmployeeID.String() != actorID {
			return reviewerrors.ErrNotReviewSubject
		}
		if !isAllowedStatusTransition(rev.Status, StatusClosed) {
			return reviewerrors.ErrReviewNotCompleted
		}

		now := time.Now().UTC()
		rev.AcknowledgedAt = &now
		rev.Status = StatusClosed
		return nil
	})
}

// transition loads the review under a row lock, applies mutate, and persists
// the result in one transaction.
func (s *service) transition(ctx context.Context, id string, mutate func(*PerformanceReview) error) (PerformanceReviewResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PerformanceReviewResponse{}, reviewerrors.ErrInvalidReviewID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("review transition begin tx failed", zap.Error(err))
		return PerformanceReviewResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rev, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PerformanceReviewResponse{}, reviewerrors.ErrReviewNotFound
		}
		return PerformanceReviewResponse{}, err
	}

	if err := mutate(rev); err != nil {
		return PerformanceReviewResponse{}, err
	}

	if err := qtx.Update(ctx, rev); err != nil {
		s.logger.Error("review transition persist failed", zap.String("review_id", id), zap.Error(err))
		return PerformanceReviewResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("review transition commit failed", zap.String("review_id", id), zap.Error(err))
		return PerformanceReviewResponse{}, err
	}

	s.logger.Info("review transition success",
		zap.String("review_id", id),
		zap.String("status", rev.Status),
	)
	return mapToResponse(*rev), nil
}

func mapToResponses(rows []PerformanceReview) []PerformanceReviewResponse {
	resp := make([]PerformanceReviewResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}

func mapToResponse(r PerformanceReview) PerformanceReviewResponse {
	return PerformanceReviewResponse{
		ID:               r.ID.String(),
		CycleID:          r.CycleID.String(),
		EmployeeID:       r.EmployeeID.String(),
		ManagerID:        r.ManagerID.String(),
		Status:           r.Status,
		SelfAssessment:   r.SelfAssessment,
		ManagerComments:  r.ManagerComments,
		Rating:           r.Rating,
		Strengths:        r.Strengths,
		DevelopmentAreas: r.DevelopmentAreas,
		SubmittedAt:      r.SubmittedAt,
		ReviewedAt:       r.ReviewedAt,
		AcknowledgedAt:   r.AcknowledgedAt,
	}
}
