package attendance

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	attendanceerrors "go-workforce/internal/attendance/errors"
	"go-workforce/internal/bootstrap"
	"go-workforce/internal/events"
	"go-workforce/internal/messaging/kafka"
	"go-workforce/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DecisionApprove = "APPROVE"
	DecisionReject  = "REJECT"
)

func (s *service) ListPendingApprovals(ctx context.Context, managerID string) ([]AttendanceResponse, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return nil, attendanceerrors.ErrInvalidActorID
	}
	rows, err := s.repo.FindPendingForManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(rows), nil
}

// ApproveOrReject settles the manager slot. Approve returns the record to
// PRESENT and derives the outcome from the half-day flag; reject sends it to
// DISPUTED with UNPAID_LEAVE. An approved correction also applies the
// requested timestamps and recomputes totalHours.
func (s *service) ApproveOrReject(ctx context.Context, approverID, recordID string, req ApprovalDecisionRequest) (AttendanceResponse, error) {
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(recordID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidRecordID
	}
	if req.Decision != DecisionApprove && req.Decision != DecisionReject {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDecision
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

	info, err := qtx.GetRosterInfo(ctx, rec.EmployeeID.String())
	if err != nil {
		return AttendanceResponse{}, err
	}
	if info.ManagerID == nil || *info.ManagerID != approverUUID {
		return AttendanceResponse{}, attendanceerrors.ErrNotAssignedApprover
	}

	adjudicable := rec.Status == StatusShortfall || rec.Status == StatusPendingApproval
	if !adjudicable || rec.ManagerApproval.Status == nil || *rec.ManagerApproval.Status != ApprovalPending {
		return AttendanceResponse{}, attendanceerrors.ErrApprovalNotPending
	}

	now := s.now()
	decided := now

	if req.Decision == DecisionApprove {
		if !isAllowedStatusTransition(rec.Status, StatusPresent) {
			return AttendanceResponse{}, attendanceerrors.ErrApprovalNotPending
		}

		if rec.Correction.Status != nil && *rec.Correction.Status == ApprovalPending {
			applyCorrection(rec)
		}

		approved := ApprovalApproved
		rec.ManagerApproval = Approval{
			ApproverID: &approverUUID,
			Status:     &approved,
			Comment:    optionalString(req.Comment),
			DecidedAt:  &decided,
		}
		rec.Status = StatusPresent

		outcome := OutcomeFullDay
		if rec.IsHalfDay {
			outcome = OutcomeHalfDay
		}
		rec.FinalOutcome = &outcome
	} else {
		if !isAllowedStatusTransition(rec.Status, StatusDisputed) {
			return AttendanceResponse{}, attendanceerrors.ErrApprovalNotPending
		}

		rejected := ApprovalRejected
		rec.ManagerApproval = Approval{
			ApproverID: &approverUUID,
			Status:     &rejected,
			Comment:    optionalString(req.Comment),
			DecidedAt:  &decided,
		}
		if rec.Correction.Status != nil && *rec.Correction.Status == ApprovalPending {
			rec.Correction.Status = &rejected
		}
		rec.Status = StatusDisputed

		outcome := OutcomeUnpaidLeave
		rec.FinalOutcome = &outcome
	}

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("adjudication persist failed", zap.String("record_id", recordID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("shortfall adjudicated",
		zap.String("record_id", recordID),
		zap.String("approver_id", approverID),
		zap.String("decision", req.Decision),
		zap.String("status", rec.Status),
	)
	return mapToResponse(*rec), nil
}

// FlagToHR escalates a disputed record to HR. One-way: there is no path
// back to manager adjudication. The escalation event rides the outbox so
// notification dispatch happens after commit, never inside the transaction.
func (s *service) FlagToHR(ctx context.Context, employeeID, recordID string, req FlagToHRRequest) (AttendanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(recordID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidRecordID
	}

	rid := contextutil.GetRequestID(ctx)

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
	if !isAllowedStatusTransition(rec.Status, StatusEscalatedToHR) {
		return AttendanceResponse{}, attendanceerrors.ErrRecordNotDisputed
	}

	pending := ApprovalPending
	rec.Status = StatusEscalatedToHR
	rec.HRApproval = Approval{Status: &pending}
	rec.Notes = appendNote(rec.Notes, req.Notes)

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("escalation persist failed", zap.String("record_id", recordID), zap.Error(err))
		return AttendanceResponse{}, err
	}

	if s.outbox != nil {
		event := events.AttendanceEscalatedEvent{
			EventType:  "attendance_escalated",
			RequestID:  rid,
			RecordID:   rec.ID.String(),
			EmployeeID: employeeID,
			Date:       rec.Date.Format("2006-01-02"),
			Notes:      req.Notes,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return AttendanceResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "attendance_record",
			AggregateID:   rec.ID.String(),
			EventType:     event.EventType,
			Topic:         events.AttendanceEscalatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			return AttendanceResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("record escalated to hr",
		zap.String("request_id", rid),
		zap.String("record_id", recordID),
		zap.String("employee_id", employeeID),
	)
	return mapToResponse(*rec), nil
}

// AdminOverride is the HR escape hatch: it can rewrite a record regardless
// of lifecycle state, including one stuck in ESCALATED_TO_HR. Every override
// lands in the audit trail with the actor and reason.
func (s *service) AdminOverride(ctx context.Context, actorID, recordID string, req AdminOverrideRequest) (AttendanceResponse, error) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(recordID); err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidRecordID
	}
	if err := validateOverride(req); err != nil {
		return AttendanceResponse{}, err
	}

	checkIn, err := parseOptionalTimestamp(req.CheckInTime)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
	}
	checkOut, err := parseOptionalTimestamp(req.CheckOutTime)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidDateFormat
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

	if checkIn != nil {
		rec.CheckInTime = checkIn
	}
	if checkOut != nil {
		rec.CheckOutTime = checkOut
	}
	if rec.CheckInTime != nil && rec.CheckOutTime != nil {
		if !rec.CheckOutTime.After(*rec.CheckInTime) {
			return AttendanceResponse{}, attendanceerrors.ErrCheckOutBeforeCheckIn
		}
		total := roundHours(rec.CheckOutTime.Sub(*rec.CheckInTime).Hours())
		rec.TotalHours = &total
	}
	if req.IsHalfDay != nil {
		rec.IsHalfDay = *req.IsHalfDay
	}
	if req.Status != nil {
		rec.Status = *req.Status
	}
	if req.FinalOutcome != nil {
		rec.FinalOutcome = req.FinalOutcome
	}
	if rec.HRApproval.Status != nil && *rec.HRApproval.Status == ApprovalPending && rec.Status != StatusEscalatedToHR {
		// Leaving the escalated state settles the HR slot.
		approved := ApprovalApproved
		now := s.now()
		rec.HRApproval = Approval{
			ApproverID: &actorUUID,
			Status:     &approved,
			Comment:    optionalString(req.Reason),
			DecidedAt:  &now,
		}
	}

	if err := qtx.Update(ctx, rec); err != nil {
		s.logger.Error("override persist failed", zap.String("record_id", recordID), zap.Error(err))
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	if s.audit != nil {
		s.audit.Record(ctx, bootstrap.AuditEntry{
			ActorID:    actorID,
			Action:     "attendance_override",
			EntityType: "attendance_record",
			EntityID:   recordID,
			Reason:     req.Reason,
			OccurredAt: s.now().UTC(),
		})
	}

	s.logger.Info("attendance override applied",
		zap.String("record_id", recordID),
		zap.String("actor_id", actorID),
	)
	return mapToResponse(*rec), nil
}

func validateOverride(req AdminOverrideRequest) error {
	if req.Status != nil {
		switch *req.Status {
		case StatusPresent, StatusOnLeave, StatusHoliday, StatusAbsent,
			StatusShortfall, StatusPendingApproval, StatusDisputed:
		default:
			return attendanceerrors.ErrInvalidOverride
		}
	}
	if req.FinalOutcome != nil {
		switch *req.FinalOutcome {
		case OutcomeFullDay, OutcomeHalfDay, OutcomeUnpaidLeave:
		default:
			return attendanceerrors.ErrInvalidOverride
		}
	}
	return nil
}

// applyCorrection copies the approved requested timestamps onto the record
// and recomputes the derived hours.
func applyCorrection(rec *AttendanceRecord) {
	if rec.Correction.RequestedCheckIn != nil {
		rec.CheckInTime = rec.Correction.RequestedCheckIn
	}
	if rec.Correction.RequestedCheckOut != nil {
		rec.CheckOutTime = rec.Correction.RequestedCheckOut
	}
	if rec.CheckInTime != nil && rec.CheckOutTime != nil {
		total := roundHours(rec.CheckOutTime.Sub(*rec.CheckInTime).Hours())
		rec.TotalHours = &total
	}
	approved := ApprovalApproved
	rec.Correction.Status = &approved
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func appendNote(existing *string, note string) *string {
	if note == "" {
		return existing
	}
	if existing == nil || *existing == "" {
		return &note
	}
	combined := *existing + "\n" + note
	return &combined
}
