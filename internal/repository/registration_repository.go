package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/codewithtechno/techno-hub/internal/model"
)

// RegistrationRepo persists event registrations, one per (user, event).
type RegistrationRepo struct {
	db *sql.DB
}

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

const registrationColumns = `r.id, r.user_id, r.event_id, r.status, r.payment_status, r.payment_id,
	r.payment_amount, r.paid_at, r.created_at, r.updated_at`

func registrationDest(g *model.EventRegistration) []any {
	return []any{&g.ID, &g.UserID, &g.EventID, &g.Status, &g.PaymentStatus, &g.PaymentID,
		&g.PaymentAmount, &g.PaidAt, &g.CreatedAt, &g.UpdatedAt}
}

// Create inserts a registration; a duplicate (user, event) yields ErrDuplicate.
func (r *RegistrationRepo) Create(ctx context.Context, g *model.EventRegistration) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO event_registrations (id, user_id, event_id, status,
		payment_status, payment_id, payment_amount, paid_at, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		g.ID, g.UserID, g.EventID, g.Status, g.PaymentStatus, g.PaymentID, g.PaymentAmount,
		g.PaidAt, g.CreatedAt, g.UpdatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID fetches a single registration.
func (r *RegistrationRepo) GetByID(ctx context.Context, id string) (model.EventRegistration, error) {
	var g model.EventRegistration
	err := r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM event_registrations r WHERE r.id=?", id).
		Scan(registrationDest(&g)...)
	return g, notFound(err)
}

// GetByUserAndEvent returns the registration of one account for one event.
func (r *RegistrationRepo) GetByUserAndEvent(ctx context.Context, userID, eventID string) (model.EventRegistration, error) {
	var g model.EventRegistration
	err := r.db.QueryRowContext(ctx,
		"SELECT "+registrationColumns+" FROM event_registrations r WHERE r.user_id=? AND r.event_id=?",
		userID, eventID).Scan(registrationDest(&g)...)
	return g, notFound(err)
}

// ListByEvent returns the registrations of an event.  A non-empty userID
// restricts the list to that account's rows.
func (r *RegistrationRepo) ListByEvent(ctx context.Context, eventID, userID string) ([]model.EventRegistration, error) {
	q := "SELECT " + registrationColumns + " FROM event_registrations r WHERE r.event_id=?"
	args := []any{eventID}
	if userID != "" {
		q += " AND r.user_id=?"
		args = append(args, userID)
	}
	rows, err := r.db.QueryContext(ctx, q+" ORDER BY r.created_at DESC", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.EventRegistration
	for rows.Next() {
		var g model.EventRegistration
		if err := rows.Scan(registrationDest(&g)...); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ListByUser returns one account's registrations joined with their events.
func (r *RegistrationRepo) ListByUser(ctx context.Context, userID string) ([]model.RegistrationWithEvent, error) {
	return r.listWithEvent(ctx, "WHERE r.user_id = ?", userID)
}

// ListAll returns every registration joined with its event.  The inner join
// drops registrations whose event no longer exists.
func (r *RegistrationRepo) ListAll(ctx context.Context) ([]model.RegistrationWithEvent, error) {
	return r.listWithEvent(ctx, "")
}

func (r *RegistrationRepo) listWithEvent(ctx context.Context, where string, args ...any) ([]model.RegistrationWithEvent, error) {
	q := "SELECT " + registrationColumns + `, e.id, e.title, e.event_type, e.event_date, e.event_time,
		e.location, e.cover_image_url, e.is_paid, e.ticket_price
		FROM event_registrations r JOIN events e ON e.id = r.event_id ` + where + " ORDER BY r.created_at DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.RegistrationWithEvent
	for rows.Next() {
		var row model.RegistrationWithEvent
		ev := &row.Event
		dest := append(registrationDest(&row.EventRegistration), &ev.ID, &ev.Title, &ev.EventType,
			&ev.EventDate, &ev.EventTime, &ev.Location, &ev.CoverImageURL, &ev.IsPaid, &ev.TicketPrice)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SetStatus moves a registration to status.
func (r *RegistrationRepo) SetStatus(ctx context.Context, id string, status model.RegistrationStatus, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE event_registrations SET status=?, updated_at=? WHERE id=?", status, at, id)
	return affectedOrNotFound(res, err)
}
