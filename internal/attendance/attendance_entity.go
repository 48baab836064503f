package attendance

import (
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPresent         = "PRESENT"
	StatusOnLeave         = "ON_LEAVE"
	StatusHoliday         = "HOLIDAY"
	StatusAbsent          = "ABSENT"
	StatusShortfall       = "SHORTFALL"
	StatusPendingApproval = "PENDING_APPROVAL"
	StatusDisputed        = "DISPUTED"
	StatusEscalatedToHR   = "ESCALATED_TO_HR"
)

const (
	ApprovalPending  = "PENDING"
	ApprovalApproved = "APPROVED"
	ApprovalRejected = "REJECTED"
)

const (
	OutcomeFullDay     = "FULL_DAY"
	OutcomeHalfDay     = "HALF_DAY"
	OutcomeUnpaidLeave = "UNPAID_LEAVE"
)

const (
	CorrectionTypeCheckIn  = "CHECK_IN"
	CorrectionTypeCheckOut = "CHECK_OUT"
	CorrectionTypeBoth     = "BOTH"
)

// Approval is one adjudication slot. The manager slot opens on shortfall or
// correction; the HR slot opens only on escalation.
type Approval struct {
	ApproverID *uuid.UUID `gorm:"type:uuid"`
	Status     *string    `gorm:"type:varchar(20)"`
	Comment    *string    `gorm:"type:text"`
	DecidedAt  *time.Time `gorm:"type:timestamptz"`
}

type CorrectionRequest struct {
	Type              *string    `gorm:"type:varchar(20)"`
	Reason            *string    `gorm:"type:text"`
	RequestedCheckIn  *time.Time `gorm:"type:timestamptz"`
	RequestedCheckOut *time.Time `gorm:"type:timestamptz"`
	Status            *string    `gorm:"type:varchar(20)"`
}

type AttendanceRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attendance_employee_date"`
	// Date is the calendar day in the site's local zone; the unique index on
	// (employee, date) is the source of truth for per-day uniqueness.
	Date time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date"`

	CheckInTime  *time.Time `gorm:"type:timestamptz"`
	CheckOutTime *time.Time `gorm:"type:timestamptz"`
	// TotalHours is always recomputed from the two timestamps, never set
	// directly from input.
	TotalHours *float64 `gorm:"type:numeric(5,2)"`

	Status    string  `gorm:"type:varchar(30);not null"`
	IsHalfDay bool    `gorm:"not null;default:false"`
	Notes     *string `gorm:"type:text"`

	ManagerApproval Approval          `gorm:"embedded;embeddedPrefix:manager_approval_"`
	HRApproval      Approval          `gorm:"embedded;embeddedPrefix:hr_approval_"`
	Correction      CorrectionRequest `gorm:"embedded;embeddedPrefix:correction_"`

	FinalOutcome *string `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// hasPendingManagerApproval reports whether the record sits in the manager's
// queue. While it does, finalOutcome must stay unset.
func (r *AttendanceRecord) hasPendingManagerApproval() bool {
	return r.ManagerApproval.Status != nil && *r.ManagerApproval.Status == ApprovalPending
}

// isAllowedStatusTransition is the single transition check for the
// attendance lifecycle. ESCALATED_TO_HR is a dead end for every normal
// operation; only an administrative override leaves it.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPresent:
		return targetStatus == StatusShortfall || targetStatus == StatusPendingApproval
	case StatusShortfall:
		return targetStatus == StatusPresent ||
			targetStatus == StatusDisputed ||
			targetStatus == StatusPendingApproval
	case StatusPendingApproval:
		return targetStatus == StatusPresent || targetStatus == StatusDisputed
	case StatusDisputed:
		return targetStatus == StatusEscalatedToHR || targetStatus == StatusPendingApproval
	case StatusEscalatedToHR:
		return false
	default:
		return false
	}
}

// roundHours keeps the derived totalHours at two-decimal precision.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func minutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// dateOnly truncates to the calendar day in t's location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
