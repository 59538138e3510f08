package model

import "time"

// Event modes.
const (
	EventOnline  = "online"
	EventOffline = "offline"
)

// EventFields are the admin-editable attributes of an event.
type EventFields struct {
	Title                    string  `json:"title" validate:"required,max=200"`
	Description              *string `json:"description"`
	EventType                string  `json:"event_type" validate:"required,oneof=online offline"`
	EventDate                Date    `json:"event_date" validate:"required"`
	EventTime                *string `json:"event_time" validate:"omitempty,max=8"`
	Location                 *string `json:"location" validate:"omitempty,max=255"`
	CoverImageURL            *string `json:"cover_image_url" validate:"omitempty,max=512"`
	MaxParticipants          *int    `json:"max_participants" validate:"omitempty,gt=0"`
	IsActive                 bool    `json:"is_active"`
	IsAcceptingRegistrations bool    `json:"is_accepting_registrations"`
	Pricing
}

// NewEventFields returns the defaults a new event starts from.
func NewEventFields() EventFields {
	return EventFields{IsActive: true, IsAcceptingRegistrations: true}
}

// Event is a scheduled gathering (`events` table).
type Event struct {
	ID string `json:"id"`
	EventFields
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the event is visible and accepting registrations.
func (e Event) IsOpen() bool { return e.IsActive && e.IsAcceptingRegistrations }

// IsUpcoming reports whether the event is visible but registration has not opened.
func (e Event) IsUpcoming() bool { return e.IsActive && !e.IsAcceptingRegistrations }

// PartitionEvents splits events into open and upcoming sets, preserving order.
func PartitionEvents(events []Event) (open, upcoming []Event) {
	for _, e := range events {
		switch {
		case e.IsOpen():
			open = append(open, e)
		case e.IsUpcoming():
			upcoming = append(upcoming, e)
		}
	}
	return open, upcoming
}

// EventPatch is a partial event update and the create payload.
type EventPatch struct {
	Title                    Patch[string]   `json:"title,omitzero"`
	Description              Patch[*string]  `json:"description,omitzero"`
	EventType                Patch[string]   `json:"event_type,omitzero"`
	EventDate                Patch[Date]     `json:"event_date,omitzero"`
	EventTime                Patch[*string]  `json:"event_time,omitzero"`
	Location                 Patch[*string]  `json:"location,omitzero"`
	CoverImageURL            Patch[*string]  `json:"cover_image_url,omitzero"`
	MaxParticipants          Patch[*int]     `json:"max_participants,omitzero"`
	IsActive                 Patch[bool]     `json:"is_active,omitzero"`
	IsAcceptingRegistrations Patch[bool]     `json:"is_accepting_registrations,omitzero"`
	IsPaid                   Patch[bool]     `json:"is_paid,omitzero"`
	TicketPrice              Patch[*float64] `json:"ticket_price,omitzero"`
	EarlyBirdPrice           Patch[*float64] `json:"early_bird_price,omitzero"`
	EarlyBirdSeats           Patch[*int]     `json:"early_bird_seats,omitzero"`
}

// Apply writes every set field of p onto f.
func (p EventPatch) Apply(f *EventFields) {
	p.Title.apply(&f.Title)
	p.Description.apply(&f.Description)
	p.EventType.apply(&f.EventType)
	p.EventDate.apply(&f.EventDate)
	p.EventTime.apply(&f.EventTime)
	p.Location.apply(&f.Location)
	p.CoverImageURL.apply(&f.CoverImageURL)
	p.MaxParticipants.apply(&f.MaxParticipants)
	p.IsActive.apply(&f.IsActive)
	p.IsAcceptingRegistrations.apply(&f.IsAcceptingRegistrations)
	p.IsPaid.apply(&f.IsPaid)
	p.TicketPrice.apply(&f.TicketPrice)
	p.EarlyBirdPrice.apply(&f.EarlyBirdPrice)
	p.EarlyBirdSeats.apply(&f.EarlyBirdSeats)
}

// PatchFromEventFields builds a patch that sets every field to the value in f.
func PatchFromEventFields(f EventFields) EventPatch {
	return EventPatch{
		Title:                    SetTo(f.Title),
		Description:              SetTo(f.Description),
		EventType:                SetTo(f.EventType),
		EventDate:                SetTo(f.EventDate),
		EventTime:                SetTo(f.EventTime),
		Location:                 SetTo(f.Location),
		CoverImageURL:            SetTo(f.CoverImageURL),
		MaxParticipants:          SetTo(f.MaxParticipants),
		IsActive:                 SetTo(f.IsActive),
		IsAcceptingRegistrations: SetTo(f.IsAcceptingRegistrations),
		IsPaid:                   SetTo(f.IsPaid),
		TicketPrice:              SetTo(f.TicketPrice),
		EarlyBirdPrice:           SetTo(f.EarlyBirdPrice),
		EarlyBirdSeats:           SetTo(f.EarlyBirdSeats),
	}
}

// EventSummary is the slice of an event joined onto registrations.
type EventSummary struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	EventType     string   `json:"event_type"`
	EventDate     Date     `json:"event_date"`
	EventTime     *string  `json:"event_time"`
	Location      *string  `json:"location"`
	CoverImageURL *string  `json:"cover_image_url"`
	IsPaid        bool     `json:"is_paid"`
	TicketPrice   *float64 `json:"ticket_price"`
}

// Summary returns the joinable fields of e.
func (e Event) Summary() EventSummary {
	return EventSummary{
		ID:            e.ID,
		Title:         e.Title,
		EventType:     e.EventType,
		EventDate:     e.EventDate,
		EventTime:     e.EventTime,
		Location:      e.Location,
		CoverImageURL: e.CoverImageURL,
		IsPaid:        e.IsPaid,
		TicketPrice:   e.TicketPrice,
	}
}
