package model

import "time"

// Sprint types.
const (
	SprintDesign      = "design"
	SprintDevelopment = "development"
)

// SprintFields are the admin-editable attributes of a sprint.
type SprintFields struct {
	Title                   string  `json:"title" validate:"required,max=200"`
	Description             *string `json:"description"`
	SprintType              string  `json:"sprint_type" validate:"required,oneof=design development"`
	DurationDays            int     `json:"duration_days" validate:"gt=0,lte=365"`
	StartDate               *Date   `json:"start_date"`
	EndDate                 *Date   `json:"end_date"`
	Eligibility             *string `json:"eligibility"`
	MaxParticipants         *int    `json:"max_participants" validate:"omitempty,gt=0"`
	IsActive                bool    `json:"is_active"`
	IsAcceptingApplications bool    `json:"is_accepting_applications"`
	CoverImageURL           *string `json:"cover_image_url" validate:"omitempty,max=512"`
	Pricing
}

// NewSprintFields returns the defaults a new sprint starts from: visible
// and open for applications.
func NewSprintFields() SprintFields {
	return SprintFields{IsActive: true, IsAcceptingApplications: true}
}

// Sprint is a time-boxed program offering (`sprints` table).
type Sprint struct {
	ID string `json:"id"`
	SprintFields
	CreatedBy *string   `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsOpen reports whether the sprint is visible and accepting applications.
func (s Sprint) IsOpen() bool { return s.IsActive && s.IsAcceptingApplications }

// IsUpcoming reports whether the sprint is visible but not yet accepting
// applications.  Open and upcoming never overlap.
func (s Sprint) IsUpcoming() bool { return s.IsActive && !s.IsAcceptingApplications }

// PartitionSprints splits sprints into the open and upcoming sets,
// preserving order.  Inactive sprints land in neither.
func PartitionSprints(sprints []Sprint) (open, upcoming []Sprint) {
	for _, s := range sprints {
		switch {
		case s.IsOpen():
			open = append(open, s)
		case s.IsUpcoming():
			upcoming = append(upcoming, s)
		}
	}
	return open, upcoming
}

// SprintPatch is a partial sprint update.  It also serves as the create
// payload, applied on top of NewSprintFields.
type SprintPatch struct {
	Title                   Patch[string]   `json:"title,omitzero"`
	Description             Patch[*string]  `json:"description,omitzero"`
	SprintType              Patch[string]   `json:"sprint_type,omitzero"`
	DurationDays            Patch[int]      `json:"duration_days,omitzero"`
	StartDate               Patch[*Date]    `json:"start_date,omitzero"`
	EndDate                 Patch[*Date]    `json:"end_date,omitzero"`
	Eligibility             Patch[*string]  `json:"eligibility,omitzero"`
	MaxParticipants         Patch[*int]     `json:"max_participants,omitzero"`
	IsActive                Patch[bool]     `json:"is_active,omitzero"`
	IsAcceptingApplications Patch[bool]     `json:"is_accepting_applications,omitzero"`
	CoverImageURL           Patch[*string]  `json:"cover_image_url,omitzero"`
	IsPaid                  Patch[bool]     `json:"is_paid,omitzero"`
	TicketPrice             Patch[*float64] `json:"ticket_price,omitzero"`
	EarlyBirdPrice          Patch[*float64] `json:"early_bird_price,omitzero"`
	EarlyBirdSeats          Patch[*int]     `json:"early_bird_seats,omitzero"`
}

// Apply writes every set field of p onto f.
func (p SprintPatch) Apply(f *SprintFields) {
	p.Title.apply(&f.Title)
	p.Description.apply(&f.Description)
	p.SprintType.apply(&f.SprintType)
	p.DurationDays.apply(&f.DurationDays)
	p.StartDate.apply(&f.StartDate)
	p.EndDate.apply(&f.EndDate)
	p.Eligibility.apply(&f.Eligibility)
	p.MaxParticipants.apply(&f.MaxParticipants)
	p.IsActive.apply(&f.IsActive)
	p.IsAcceptingApplications.apply(&f.IsAcceptingApplications)
	p.CoverImageURL.apply(&f.CoverImageURL)
	p.IsPaid.apply(&f.IsPaid)
	p.TicketPrice.apply(&f.TicketPrice)
	p.EarlyBirdPrice.apply(&f.EarlyBirdPrice)
	p.EarlyBirdSeats.apply(&f.EarlyBirdSeats)
}

// PatchFromSprintFields builds a patch that sets every field to the value in f.
func PatchFromSprintFields(f SprintFields) SprintPatch {
	return SprintPatch{
		Title:                   SetTo(f.Title),
		Description:             SetTo(f.Description),
		SprintType:              SetTo(f.SprintType),
		DurationDays:            SetTo(f.DurationDays),
		StartDate:               SetTo(f.StartDate),
		EndDate:                 SetTo(f.EndDate),
		Eligibility:             SetTo(f.Eligibility),
		MaxParticipants:         SetTo(f.MaxParticipants),
		IsActive:                SetTo(f.IsActive),
		IsAcceptingApplications: SetTo(f.IsAcceptingApplications),
		CoverImageURL:           SetTo(f.CoverImageURL),
		IsPaid:                  SetTo(f.IsPaid),
		TicketPrice:             SetTo(f.TicketPrice),
		EarlyBirdPrice:          SetTo(f.EarlyBirdPrice),
		EarlyBirdSeats:          SetTo(f.EarlyBirdSeats),
	}
}

// SprintSummary is the slice of a sprint joined onto applications.
type SprintSummary struct {
	Title      string `json:"title"`
	SprintType string `json:"sprint_type"`
	StartDate  *Date  `json:"start_date"`
	EndDate    *Date  `json:"end_date"`
}

// Summary returns the joinable fields of s.
func (s Sprint) Summary() SprintSummary {
	return SprintSummary{Title: s.Title, SprintType: s.SprintType, StartDate: s.StartDate, EndDate: s.EndDate}
}
