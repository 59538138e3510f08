package model

import "time"

// ApplicationStatus is the review state of an application.  Admins may move
// an application between any two statuses.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationAccepted, ApplicationRejected:
		return true
	}
	return false
}

// ApplicationAnswers are the member's free-text answers on the apply form.
type ApplicationAnswers struct {
	Motivation     string  `json:"motivation" validate:"required,max=5000"`
	Experience     string  `json:"experience" validate:"required,max=5000"`
	PortfolioLink  *string `json:"portfolio_link" validate:"omitempty,url"`
	Availability   string  `json:"availability" validate:"required,max=1000"`
	AdditionalInfo *string `json:"additional_info" validate:"omitempty,max=5000"`
}

// Application links an account to a sprint.  At most one exists per
// (UserID, SprintID) pair.
type Application struct {
	ID             string            `json:"id"`
	UserID         string            `json:"user_id"`
	SprintID       string            `json:"sprint_id"`
	Status         ApplicationStatus `json:"status"`
	Motivation     *string           `json:"motivation"`
	Experience     *string           `json:"experience"`
	PortfolioLink  *string           `json:"portfolio_link"`
	Availability   *string           `json:"availability"`
	AdditionalInfo *string           `json:"additional_info"`
	AdminNotes     *string           `json:"admin_notes"`
	ReviewedBy     *string           `json:"reviewed_by"`
	ReviewedAt     *time.Time        `json:"reviewed_at"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// NewApplication builds a pending application from the member's answers.
func NewApplication(id, userID, sprintID string, a ApplicationAnswers) Application {
	opt := func(s string) *string { return &s }
	return Application{
		ID:             id,
		UserID:         userID,
		SprintID:       sprintID,
		Status:         ApplicationPending,
		Motivation:     opt(a.Motivation),
		Experience:     opt(a.Experience),
		PortfolioLink:  a.PortfolioLink,
		Availability:   opt(a.Availability),
		AdditionalInfo: a.AdditionalInfo,
	}
}

// StatusChange is an admin review decision.
type StatusChange struct {
	Status ApplicationStatus `json:"status"`
	Notes  *string           `json:"admin_notes,omitempty"`
}

// ApplicationWithSprint is an application joined with the sprint fields
// shown on the member dashboard.
type ApplicationWithSprint struct {
	Application
	Sprint SprintSummary `json:"sprints"`
}

// ApplicationWithProfile is the admin review row: the application, its
// sprint, and the applicant's contact fields.
type ApplicationWithProfile struct {
	Application
	Sprint  SprintSummary  `json:"sprints"`
	Profile ProfileSummary `json:"profiles"`
}
