package events

import "time"

const AttendanceEscalatedTopic = "hr.attendance.escalation.v1"

type AttendanceEscalatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	RecordID   string    `json:"record_id"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Notes      string    `json:"notes,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
