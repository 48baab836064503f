package reviewcycle

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cycle lifecycle, strictly forward: PLANNED → ACTIVE → CLOSED.
const (
	StatusPlanned = "PLANNED"
	StatusActive  = "ACTIVE"
	StatusClosed  = "CLOSED"
)

type ReviewCycle struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_review_cycles_name_year"`
	Year int       `gorm:"type:int;not null;uniqueIndex:uq_review_cycles_name_year"`

	Description       string     `gorm:"type:text"`
	StartDate         time.Time  `gorm:"type:date;not null"`
	EndDate           time.Time  `gorm:"type:date;not null"`
	SelfAssessmentDue *time.Time `gorm:"type:date"`
	ManagerReviewDue  *time.Time `gorm:"type:date"`

	Status    string     `gorm:"type:varchar(20);not null;default:'PLANNED';index"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ReviewCycle) TableName() string {
	return "review_cycles"
}

// isAllowedStatusTransition centralizes the forward-only cycle lifecycle.
func isAllowedStatusTransition(currentStatus, targetStatus string) bool {
	switch currentStatus {
	case StatusPlanned:
		return targetStatus == StatusActive
	case StatusActive:
		return targetStatus == StatusClosed
	default:
		return false
	}
}
