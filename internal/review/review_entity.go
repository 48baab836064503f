package review

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Performance review lifecycle, strictly forward.
const (
	StatusNotStarted            = "NOT_STARTED"
	StatusPendingSelfAssessment = "PENDING_SELF_ASSESSMENT"
	StatusPendingManagerReview  = "PENDING_MANAGER_REVIEW"
	StatusCompleted             = "COMPLETED"
	StatusClosed                = "CLOSED"
)

type PerformanceReview struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CycleID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reviews_cycle_employee"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reviews_cycle_employee;index"`
	// ManagerID is snapshotted at fan-out time and never recomputed from the
	// roster, so later reporting-line changes do not reroute an open review.
	ManagerID uuid.UUID `gorm:"type:uuid;not null;index"`

	Status           string     `gorm:"type:varchar(30);not null;default:'PENDING_SELF_ASSESSMENT'"`
	SelfAssessment   *string    `gorm:"type:text"`
	ManagerComments  *string    `gorm:"type:text"`
	Rating           *int       `gorm:"type:smallint"`
	Strengths        []string   `gorm:"type:jsonb;serializer:json"`
	DevelopmentAreas []string   `gorm:"type:jsonb;serializer:json"`
	SubmittedAt      *time.Time `gorm:"type:timestamptz"`
	ReviewedAt       *time.Time `gorm:"type:timestamptz"`
	AcknowledgedAt   *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (PerformanceReview) TableName() string {
	return "performance_reviews"
}

// NewFromActivation builds the review record the cycle fan-out inserts.
// Activation opens the self-assessment window immediately.
func NewFromActivation(cycleID, employeeID, managerID uuid.UUID) *PerformanceReview {
	return &PerformanceReview{
		ID:         uuid.New(),
		CycleID:    cycleID,
		EmployeeID: employeeID,
		ManagerID:  managerID,
		Status:     StatusPendingSelfAssessment,
	}
}

// isAllowedStatusTransition is the single place lifecycle order is enforced.
// Every edge moves forward; nothing ever returns to an earlier state.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusNotStarted:
		return targetStatus == StatusPendingSelfAssessment
	case StatusPendingSelfAssessment:
		return targetStatus == StatusPendingManagerReview
	case StatusPendingManagerReview:
		return targetStatus == StatusCompleted
	case StatusCompleted:
		return targetStatus == StatusClosed
	default:
		return false
	}
}
