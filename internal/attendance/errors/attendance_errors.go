package attendanceerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid attendance record id",
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
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be APPROVE or REJECT",
		http.StatusBadRequest,
	)
	ErrInvalidCorrectionType = apperror.New(
		apperror.CodeInvalidInput,
		"correction type must be CHECK_IN, CHECK_OUT or BOTH",
		http.StatusBadRequest,
	)
	ErrDuplicateRecord = apperror.New(
		apperror.CodeConflict,
		"attendance already recorded for this date",
		http.StatusConflict,
	)
	ErrCheckInTooEarly = apperror.New(
		apperror.CodeInvalidInput,
		"check-in attempted before the earliest allowed time",
		http.StatusBadRequest,
	)
	ErrNonWorkingDay = apperror.New(
		apperror.CodeInvalidInput,
		"attendance cannot be recorded on a non-working day",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"no attendance record found",
		http.StatusNotFound,
	)
	ErrNoOpenRecord = apperror.New(
		apperror.CodeNotFound,
		"no open attendance record exists for today",
		http.StatusNotFound,
	)
	ErrAlreadyCheckedOut = apperror.New(
		apperror.CodeInvalidState,
		"the attendance record is already checked out",
		http.StatusConflict,
	)
	ErrCheckOutBeforeCheckIn = apperror.New(
		apperror.CodeInvalidInput,
		"check-out must be after check-in",
		http.StatusBadRequest,
	)
	ErrNotRecordOwner = apperror.New(
		apperror.CodeForbidden,
		"only the owning employee may perform this action",
		http.StatusForbidden,
	)
	ErrNotAssignedApprover = apperror.New(
		apperror.CodeForbidden,
		"only the employee's manager may adjudicate this record",
		http.StatusForbidden,
	)
	ErrApprovalNotPending = apperror.New(
		apperror.CodeInvalidState,
		"the record is not awaiting manager adjudication",
		http.StatusConflict,
	)
	ErrRecordNotDisputed = apperror.New(
		apperror.CodeInvalidState,
		"only a disputed record can be escalated",
		http.StatusConflict,
	)
	ErrRecordEscalated = apperror.New(
		apperror.CodeInvalidState,
		"the record has been escalated and can only change through an administrative override",
		http.StatusConflict,
	)
	ErrInvalidOverride = apperror.New(
		apperror.CodeInvalidInput,
		"invalid override payload",
		http.StatusBadRequest,
	)
)
