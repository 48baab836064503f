package review

import "time"

type SubmitSelfAssessmentRequest struct {
	SelfAssessment string `json:"self_assessment" binding:"required,min=10"`
}

type SubmitManagerReviewRequest struct {
	ManagerComments  string   `json:"manager_comments" binding:"required,min=10"`
	Rating           int      `json:"rating" binding:"required,gte=1,lte=5"`
	Strengths        []string `json:"strengths"`
	DevelopmentAreas []string `json:"development_areas"`
}

type PerformanceReviewResponse struct {
	ID               string     `json:"id"`
	CycleID          string     `json:"cycle_id"`
	EmployeeID       string     `json:"employee_id"`
	ManagerID        string     `json:"manager_id"`
	Status           string     `json:"status"`
	SelfAssessment   *string    `json:"self_assessment,omitempty"`
	ManagerComments  *string    `json:"manager_comments,omitempty"`
	Rating           *int       `json:"rating,omitempty"`
	Strengths        []string   `json:"strengths,omitempty"`
	DevelopmentAreas []string   `json:"development_areas,omitempty"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt       *time.Time `json:"reviewed_at,omitempty"`
	AcknowledgedAt   *time.Time `json:"acknowledged_at,omitempty"`
}
