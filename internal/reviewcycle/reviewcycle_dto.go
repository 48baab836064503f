package reviewcycle

type CreateReviewCycleRequest struct {
	Name              string  `json:"name" binding:"required"`
	Year              int     `json:"year" binding:"required,gte=2000,lte=2100"`
	Description       string  `json:"description"`
	StartDate         string  `json:"start_date" binding:"required"`
	EndDate           string  `json:"end_date" binding:"required"`
	SelfAssessmentDue *string `json:"self_assessment_due"`
	ManagerReviewDue  *string `json:"manager_review_due"`
}

// UpdateReviewCycleRequest never carries name or year: both are immutable
// after creation.
type UpdateReviewCycleRequest struct {
	Description       string  `json:"description"`
	StartDate         string  `json:"start_date" binding:"required"`
	EndDate           string  `json:"end_date" binding:"required"`
	SelfAssessmentDue *string `json:"self_assessment_due"`
	ManagerReviewDue  *string `json:"manager_review_due"`
}

type ReviewCycleResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Year              int     `json:"year"`
	Description       string  `json:"description,omitempty"`
	StartDate         string  `json:"start_date"`
	EndDate           string  `json:"end_date"`
	SelfAssessmentDue *string `json:"self_assessment_due,omitempty"`
	ManagerReviewDue  *string `json:"manager_review_due,omitempty"`
	Status            string  `json:"status"`
	CreatedBy         string  `json:"created_by"`
	UpdatedBy         *string `json:"updated_by,omitempty"`
}

// ActivationResult reports the fan-out outcome. Skips cover the two
// expected cases only: an existing review for the pair, or a candidate
// without a manager.
type ActivationResult struct {
	Status         string `json:"status"`
	ReviewsCreated int    `json:"reviews_created"`
	ReviewsSkipped int    `json:"reviews_skipped"`
}
