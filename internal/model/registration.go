package model

import "time"

// RegistrationStatus is the state of an event registration.  All four
// values are reachable from each other by admin action.
type RegistrationStatus string

const (
	RegistrationRegistered RegistrationStatus = "registered"
	RegistrationConfirmed  RegistrationStatus = "confirmed"
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

func (s RegistrationStatus) Valid() bool {
	switch s {
	case RegistrationRegistered, RegistrationConfirmed, RegistrationPending, RegistrationCancelled:
		return true
	}
	return false
}

// EventRegistration links an account to an event.  Payment fields are
// recorded for display only.
type EventRegistration struct {
	ID            string             `json:"id"`
	UserID        string             `json:"user_id"`
	EventID       string             `json:"event_id"`
	Status        RegistrationStatus `json:"status"`
	PaymentStatus *string            `json:"payment_status"`
	PaymentID     *string            `json:"payment_id"`
	PaymentAmount *float64           `json:"payment_amount"`
	PaidAt        *time.Time         `json:"paid_at"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// RegistrationWithEvent is a member's registration joined with its event.
type RegistrationWithEvent struct {
	EventRegistration
	Event EventSummary `json:"event"`
}

// RegistrationWithDetails is the admin row: registration, event and the
// registrant's contact fields.
type RegistrationWithDetails struct {
	EventRegistration
	Event   EventSummary   `json:"event"`
	Profile ProfileSummary `json:"profile"`
}
