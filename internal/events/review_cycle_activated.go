package events

import "time"

const ReviewCycleActivatedTopic = "hr.review_cycle.lifecycle.v1"

type ReviewCycleActivatedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	CycleID        string    `json:"cycle_id"`
	CycleName      string    `json:"cycle_name"`
	Year           int       `json:"year"`
	ReviewsCreated int       `json:"reviews_created"`
	ReviewsSkipped int       `json:"reviews_skipped"`
	ActivatedBy    string    `json:"activated_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
