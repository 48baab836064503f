package attendance

import "time"

type RequestHalfDayRequest struct {
	Date  string `json:"date" binding:"required"`
	Notes string `json:"notes" binding:"required,min=5"`
}

type RequestCorrectionRequest struct {
	Type              string  `json:"type" binding:"required"`
	Reason            string  `json:"reason" binding:"required,min=5"`
	RequestedCheckIn  *string `json:"requested_check_in"`
	RequestedCheckOut *string `json:"requested_check_out"`
}

type ApprovalDecisionRequest struct {
	Decision string `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	Comment  string `json:"comment"`
}

type FlagToHRRequest struct {
	Notes string `json:"notes" binding:"required,min=5"`
}

// AdminOverrideRequest lets HR correct a record directly. Every field is
// optional except the reason, which feeds the audit trail.
type AdminOverrideRequest struct {
	Status       *string `json:"status"`
	CheckInTime  *string `json:"check_in_time"`
	CheckOutTime *string `json:"check_out_time"`
	IsHalfDay    *bool   `json:"is_half_day"`
	FinalOutcome *string `json:"final_outcome"`
	Reason       string  `json:"reason" binding:"required,min=5"`
}

type ApprovalResponse struct {
	ApproverID *string    `json:"approver_id,omitempty"`
	Status     *string    `json:"status,omitempty"`
	Comment    *string    `json:"comment,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
}

type CorrectionResponse struct {
	Type              *string    `json:"type,omitempty"`
	Reason            *string    `json:"reason,omitempty"`
	RequestedCheckIn  *time.Time `json:"requested_check_in,omitempty"`
	RequestedCheckOut *time.Time `json:"requested_check_out,omitempty"`
	Status            *string    `json:"status,omitempty"`
}

type AttendanceResponse struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	Date            string              `json:"date"`
	CheckInTime     *time.Time          `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time          `json:"check_out_time,omitempty"`
	TotalHours      *float64            `json:"total_hours,omitempty"`
	Status          string              `json:"status"`
	IsHalfDay       bool                `json:"is_half_day"`
	Notes           *string             `json:"notes,omitempty"`
	ManagerApproval *ApprovalResponse   `json:"manager_approval,omitempty"`
	HRApproval      *ApprovalResponse   `json:"hr_approval,omitempty"`
	Correction      *CorrectionResponse `json:"correction_request,omitempty"`
	FinalOutcome    *string             `json:"final_outcome,omitempty"`
}
