package reviewcycleerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidCycleID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid review cycle id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrCycleNameYearExists = apperror.New(
		apperror.CodeInvalidInput,
		"a review cycle with this name and year already exists",
		http.StatusBadRequest,
	)
	ErrCycleNotFound = apperror.New(
		apperror.CodeNotFound,
		"review cycle not found",
		http.StatusNotFound,
	)
	ErrCycleNotPlanned = apperror.New(
		apperror.CodeInvalidState,
		"review cycle is not in PLANNED status",
		http.StatusConflict,
	)
	ErrCycleNotActive = apperror.New(
		apperror.CodeInvalidState,
		"review cycle is not in ACTIVE status",
		http.StatusConflict,
	)
	ErrCycleClosedImmutable = apperror.New(
		apperror.CodeInvalidState,
		"a CLOSED review cycle cannot be modified",
		http.StatusConflict,
	)
	ErrActiveCycleFieldImmutable = apperror.New(
		apperror.CodeInvalidState,
		"only the review due dates of an ACTIVE cycle may change",
		http.StatusConflict,
	)
	ErrActivationAborted = apperror.New(
		apperror.CodeTransactionAborted,
		"cycle activation aborted, no reviews were created",
		http.StatusInternalServerError,
	)
)
