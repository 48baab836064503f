package reviewerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidReviewID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid performance review id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRating = apperror.New(
		apperror.CodeInvalidInput,
		"rating must be between 1 and 5",
		http.StatusBadRequest,
	)
	ErrReviewNotFound = apperror.New(
		apperror.CodeNotFound,
		"performance review not found",
		http.StatusNotFound,
	)
	ErrNotReviewSubject = apperror.New(
		apperror.CodeForbidden,
		"only the reviewed employee may perform this action",
		http.StatusForbidden,
	)
	ErrNotReviewManager = apperror.New(
		apperror.CodeForbidden,
		"only the assigned manager may perform this action",
		http.StatusForbidden,
	)
	ErrNotReviewParticipant = apperror.New(
		apperror.CodeForbidden,
		"you are not a participant of this performance review",
		http.StatusForbidden,
	)
	ErrSelfAssessmentNotOpen = apperror.New(
		apperror.CodeInvalidState,
		"the review is not awaiting a self-assessment",
		http.StatusConflict,
	)
	ErrManagerReviewNotOpen = apperror.New(
		apperror.CodeInvalidState,
		"the review is not awaiting a manager review",
		http.StatusConflict,
	)
	ErrReviewNotCompleted = apperror.New(
		apperror.CodeInvalidState,
		"only a completed review can be acknowledged",
		http.StatusConflict,
	)
)
