package repository

import (
	"context"
	"database/sql"

	"github.com/codewithtechno/techno-hub/internal/model"
)

// EventRepo provides CRUD operations for events.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = `id, title, description, event_type, event_date, event_time, location,
	cover_image_url, is_paid, ticket_price, early_bird_price, early_bird_seats, max_participants,
	is_active, is_accepting_registrations, created_by, created_at, updated_at`

func scanEvent(s rowScanner) (model.Event, error) {
	var e model.Event
	err := s.Scan(&e.ID, &e.Title, &e.Description, &e.EventType, &e.EventDate, &e.EventTime,
		&e.Location, &e.CoverImageURL, &e.IsPaid, &e.TicketPrice, &e.EarlyBirdPrice,
		&e.EarlyBirdSeats, &e.MaxParticipants, &e.IsActive, &e.IsAcceptingRegistrations,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// List returns every event ordered by date, soonest first.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY event_date ASC, created_at ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByID fetches a single event.
func (r *EventRepo) GetByID(ctx context.Context, id string) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id=?", id))
	return e, notFound(err)
}

// Create inserts an event.  The caller assigns ID and timestamps.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO events (id, title, description, event_type, event_date,
		event_time, location, cover_image_url, is_paid, ticket_price, early_bird_price, early_bird_seats,
		max_participants, is_active, is_accepting_registrations, created_by, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.Title, e.Description, e.EventType, e.EventDate, e.EventTime, e.Location,
		e.CoverImageURL, e.IsPaid, e.TicketPrice, e.EarlyBirdPrice, e.EarlyBirdSeats,
		e.MaxParticipants, e.IsActive, e.IsAcceptingRegistrations, e.CreatedBy, e.CreatedAt, e.UpdatedAt)
	return err
}

// Update overwrites the editable columns of an event.
func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET title=?, description=?, event_type=?,
		event_date=?, event_time=?, location=?, cover_image_url=?, is_paid=?, ticket_price=?,
		early_bird_price=?, early_bird_seats=?, max_participants=?, is_active=?,
		is_accepting_registrations=?, updated_at=? WHERE id=?`,
		e.Title, e.Description, e.EventType, e.EventDate, e.EventTime, e.Location, e.CoverImageURL,
		e.IsPaid, e.TicketPrice, e.EarlyBirdPrice, e.EarlyBirdSeats, e.MaxParticipants, e.IsActive,
		e.IsAcceptingRegistrations, e.UpdatedAt, e.ID)
	return affectedOrNotFound(res, err)
}

// Delete hard-deletes an event and, by cascade, its registrations.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	return affectedOrNotFound(res, err)
}
