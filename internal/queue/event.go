// Package queue defines the review notifications exchanged over RabbitMQ
// and the publisher and consumer that move them.
package queue

// Queue names.
const (
	ApplicationReviewedQueue = "application.reviewed"
	RegistrationUpdatedQueue = "registration.updated"
)

// ApplicationReviewedEvent is published when an admin sets the status of an
// application.  It carries enough for a consumer to notify the applicant
// without querying the database.
type ApplicationReviewedEvent struct {
	ApplicationID string  `json:"application_id"`
	UserID        string  `json:"user_id"`
	SprintID      string  `json:"sprint_id"`
	SprintTitle   string  `json:"sprint_title"`
	Status        string  `json:"status"`
	AdminNotes    *string `json:"admin_notes,omitempty"`
	ReviewedBy    string  `json:"reviewed_by"`
	ReviewedAt    string  `json:"reviewed_at"`
}

// RegistrationUpdatedEvent is published when an admin changes the status
// of an event registration.
type RegistrationUpdatedEvent struct {
	RegistrationID string `json:"registration_id"`
	UserID         string `json:"user_id"`
	EventID        string `json:"event_id"`
	EventTitle     string `json:"event_title"`
	Status         string `json:"status"`
	UpdatedBy      string `json:"updated_by"`
	UpdatedAt      string `json:"updated_at"`
}
