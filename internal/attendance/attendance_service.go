package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"
	"go-workforce/internal/bootstrap"
	"go-workforce/internal/calendar"
	"go-workforce/internal/messaging/kafka"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)
	RequestHalfDay(ctx context.Context, employeeID string, req RequestHalfDayRequest) (AttendanceResponse, error)
	RequestCorrection(ctx context.Context, employeeID, recordID string, req RequestCorrectionRequest) (AttendanceResponse, error)
	ListMine(ctx context.Context, employeeID, from, to string) ([]AttendanceResponse, error)
	Today(ctx context.Context, employeeID string) (AttendanceResponse, error)

	ListPendingApprovals(ctx context.Context, managerID string) ([]AttendanceResponse, error)
	ApproveOrReject(ctx context.Context, approverID, recordID string, req ApprovalDecisionRequest) (AttendanceResponse, error)
	FlagToHR(ctx context.Context, employeeID, recordID string, req FlagToHRRequest) (AttendanceResponse, error)
	AdminOverride(ctx context.Context, actorID, recordID string, req AdminOverrideRequest) (AttendanceResponse, error)
}

type Dependencies struct {
	DB       *sql.DB
	Repo     Repository
	Calendar calendar.Provider
	Config   Config
	Outbox   kafka.OutboxRepository
	Audit    bootstrap.AuditLogger
	Logger   *zap.Logger
}

type service struct {
	db       *sql.DB
	repo     Repository
	calendar calendar.Provider
	cfg      Config
	outbox   kafka.OutboxRepository
	audit    bootstrap.AuditLogger
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(deps Dependencies) Service {
	l := deps.Logger
	if l == nil {
		l = zap.L()
	}
	return &service{
		db:       deps.DB,
		repo:     deps.Repo,
		calendar: deps.Calendar,
		cfg:      deps.Config,
		outbox:   deps.Outbox,
		audit:    deps.Audit,
		logger:   l.Named("attendance.service"),
		now:      time.Now,
	}
}

// CheckIn opens the day's record. Arriving after the late cutoff degrades
// the day to a half day instead of blocking it; arriving before the
// earliest allowed time is rejected outright.
func (s *service) CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	now := s.now()
	today := dateOnly(now)

	info, err := s.repo.GetRosterInfo(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	nonWorking, err := s.calendar.IsNonWorkingDay(ctx, today, info.CountryCode)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if nonWorking {
		return AttendanceResponse{}, attendanceerrors.ErrNonWorkingDay
	}

	minutes := minutesSinceMidnight(now)
	if minutes < s.cfg.EarliestCheckInMinutes {
		return AttendanceResponse{}, attendanceerrors.ErrCheckInTooEarly
	}

	rec := &AttendanceRecord{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(employeeID),
		Date:        today,
		CheckInTime: &now,
		Status:      StatusPresent,
		IsHalfDay:   minutes > s.cfg.HalfDayCutoffMinutes,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		mapped := mapCreateError(err)
		if !errors.Is(mapped, attendanceerrors.ErrDuplicateRecord) {
			s.logger.Error("check-in persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		}
		return AttendanceResponse{}, mapped
	}

	s.logger.Info("check-in recorded",
		zap.String("employee_id", employeeID),
		zap.String("date", today.Format("2006-01-02")),
		zap.Bool("is_half_day", rec.IsHalfDay),
	)
	return mapToResponse(*rec), nil
}

// CheckOut closes the day's record and derives the outcome. totalHours is
// computed from the two timestamps only. Falling below the threshold routes
// the record to the manager instead of setting a final outcome.
func (s *service) CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	now := s.now()
	today := dateOnly(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByEmployeeAndDateForUpdate(ctx, employeeID, today)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrNoOpenRecord
		}
		return AttendanceResponse{}, err
	}
	if rec.CheckInTime == nil {
		return AttendanceResponse{}, attendanceerrors.ErrNoOpenRecord
	}
	if rec.CheckOutTime != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyCheckedOut
	}
	if !now.After(*rec.CheckInTime) {
		return AttendanceResponse{}, attendanceerrors.ErrCheckOutBeforeCheckIn
	}

	total := roundHours(now.Sub(*rec.CheckInTime).Hours())
	rec.CheckOutTime = &now
	rec.TotalHours = &total

	threshold := s.cfg.FullDayHours
	if rec.IsHalfDay {
		threshold = s.cfg.HalfDayHours
	}

	if total < threshold {
		if !isAllowedStatusTransition(rec.Status, StatusShortfall) {
			return AttendanceResponse{}, attendanceerrors.ErrApprovalNotPending
		}
		rec.Status = StatusShortfall
		pending := ApprovalPending
		rec.ManagerApproval.Status = &pending
	} else if !rec.hasPendingManagerApproval() {
		// A record already routed to the manager keeps its outcome open;
		// the manager decision settles it, not the checkout.
		outcome := OutcomeFullDay
		if rec.IsHalfDay {
			outcome = OutcomeHalfDay
		}
		rec.FinalOutcome = &outcome
	}

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("check-out persist failed", zap.String("employee_id", employeeID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("check-out recorded",
		zap.String("employee_id", employeeID),
		zap.Float64("total_hours", total),
		zap.String("status", rec.Status),
	)
	return mapToResponse(*rec), nil
}

// RequestHalfDay creates the day's record directly in adjudication,
// bypassing check-in and check-out. Only legal while no record exists for
// the date.
func (s *service) RequestHalfDay(ctx context.Context, employeeID string, req RequestHalfDayRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	date, err := time.ParseInLocation("2006-01-02", req.Date, s.now().Location())
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}

	info, err := s.repo.GetRosterInfo(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}

	nonWorking, err := s.calendar.IsNonWorkingDay(ctx, dateOnly(date), info.CountryCode)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if nonWorking {
		return AttendanceResponse{}, attendanceerrors.ErrNonWorkingDay
	}

	pending := ApprovalPending
	rec := &AttendanceRecord{
		ID:         uuid.New(),
		EmployeeID: uuid.MustParse(employeeID),
		Date:       dateOnly(date),
		Status:     StatusPendingApproval,
		IsHalfDay:  true,
		Notes:      &req.Notes,
		ManagerApproval: Approval{
			Status: &pending,
		},
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return AttendanceResponse{}, mapCreateError(err)
	}

	s.logger.Info("half-day requested",
		zap.String("employee_id", employeeID),
		zap.String("date", req.Date),
	)
	return mapToResponse(*rec), nil
}

// RequestCorrection reopens adjudication with the employee's proposed
// timestamps. An escalated record is off limits: escalation is one-way and
// only an administrative override can touch it afterwards.
func (s *service) RequestCorrection(ctx context.Context, employeeID, recordID string, req RequestCorrectionRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(recordID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidRecordID
	}

	switch req.Type {
	case CorrectionTypeCheckIn, CorrectionTypeCheckOut, CorrectionTypeBoth:
	default:
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCorrectionType
	}

	requestedIn, err := parseOptionalTimestamp(req.RequestedCheckIn)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	requestedOut, err := parseOptionalTimestamp(req.RequestedCheckOut)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	if requestedIn != nil && requestedOut != nil && !requestedOut.After(*requestedIn) {
		return AttendanceResponse{}, attendanceerrors.ErrCheckOutBeforeCheckIn
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	rec, err := qtx.FindByIDForUpdate(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}
	if rec.EmployeeID.String() != employeeID {
		return AttendanceResponse{}, attendanceerrors.ErrNotRecordOwner
	}
	if rec.Status == StatusEscalatedToHR {
		return AttendanceResponse{}, attendanceerrors.ErrRecordEscalated
	}

	pending := ApprovalPending
	correctionType := req.Type
	rec.Correction = CorrectionRequest{
		Type:              &correctionType,
		Reason:            &req.Reason,
		RequestedCheckIn:  requestedIn,
		RequestedCheckOut: requestedOut,
		Status:            &pending,
	}
	rec.Status = StatusPendingApproval
	rec.ManagerApproval = Approval{Status: &pending}
	rec.FinalOutcome = nil

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("correction request persist failed", zap.String("record_id", recordID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("correction requested",
		zap.String("record_id", recordID),
		zap.String("employee_id", employeeID),
		zap.String("type", req.Type),
	)
	return mapToResponse(*rec), nil
}

func (s *service) ListMine(ctx context.Context, employeeID, from, to string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, attendanceerrors.ErrInvalidActorID
	}

	var fromDate, toDate time.Time
	var err error
	if from != "" {
		fromDate, err = time.Parse("2006-01-02", from)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
	}
	if to != "" {
		toDate, err = time.Parse("2006-01-02", to)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidDateFormat
		}
	}

	rows, err := s.repo.FindByEmployee(ctx, employeeID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

func (s *service) Today(ctx context.Context, employeeID string) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}

	rec, err := s.repo.FindByEmployeeAndDate(ctx, employeeID, dateOnly(s.now()))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrRecordNotFound
		}
		return AttendanceResponse{}, err
	}
	return mapToResponse(*rec), nil
}

func parseOptionalTimestamp(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapToResponses(rows []AttendanceRecord) []AttendanceResponse {
	resp := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		resp[i] = mapToResponse(r)
	}
	return resp
}

func mapToResponse(r AttendanceRecord) AttendanceResponse {
	resp := AttendanceResponse{
		ID:           r.ID.String(),
		EmployeeID:   r.EmployeeID.String(),
		Date:         r.Date.Format("2006-01-02"),
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		TotalHours:   r.TotalHours,
		Status:       r.Status,
		IsHalfDay:    r.IsHalfDay,
		Notes:        r.Notes,
		FinalOutcome: r.FinalOutcome,
	}
	if r.ManagerApproval.Status != nil {
		resp.ManagerApproval = mapApproval(r.ManagerApproval)
	}
	if r.HRApproval.Status != nil {
		resp.HRApproval = mapApproval(r.HRApproval)
	}
	if r.Correction.Status != nil {
		resp.Correction = &CorrectionResponse{
			Type:              r.Correction.Type,
			Reason:            r.Correction.Reason,
			RequestedCheckIn:  r.Correction.RequestedCheckIn,
			RequestedCheckOut: r.Correction.RequestedCheckOut,
			Status:            r.Correction.Status,
		}
	}
	return resp
}

func mapApproval(a Approval) *ApprovalResponse {
	resp := &ApprovalResponse{
		Status:    a.Status,
		Comment:   a.Comment,
		DecidedAt: a.DecidedAt,
	}
	if a.ApproverID != nil {
		v := a.ApproverID.String()
		resp.ApproverID = &v
	}
	return resp
}
