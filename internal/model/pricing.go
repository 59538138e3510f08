package model

// Pricing is the descriptive price block shared by sprints and events.  The
// early-bird fields are display data only: nothing decrements
// EarlyBirdSeats when members register, and an admin ends the early-bird
// window by editing the fields.
type Pricing struct {
	IsPaid         bool     `json:"is_paid"`
	TicketPrice    *float64 `json:"ticket_price"`
	EarlyBirdPrice *float64 `json:"early_bird_price"`
	EarlyBirdSeats *int     `json:"early_bird_seats"`
}

// CurrentPrice is the price shown to visitors: the early-bird price when one
// is set and non-zero, the ticket price otherwise.  ok is false when neither
// price is set.
func (p Pricing) CurrentPrice() (price float64, ok bool) {
	if p.EarlyBirdPrice != nil && *p.EarlyBirdPrice != 0 {
		return *p.EarlyBirdPrice, true
	}
	if p.TicketPrice != nil {
		return *p.TicketPrice, true
	}
	return 0, false
}

// HasEarlyBird reports whether an early-bird price below the ticket price is on offer.
func (p Pricing) HasEarlyBird() bool {
	if p.EarlyBirdPrice == nil || *p.EarlyBirdPrice == 0 {
		return false
	}
	ticket := 0.0
	if p.TicketPrice != nil {
		ticket = *p.TicketPrice
	}
	return *p.EarlyBirdPrice < ticket
}
