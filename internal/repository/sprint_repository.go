package repository

import (
	"context"
	"database/sql"

	"github.com/codewithtechno/techno-hub/internal/model"
)

// SprintRepo provides CRUD operations for sprints.
type SprintRepo struct {
	db *sql.DB
}

// NewSprintRepo returns a SprintRepo bound to the given database.
func NewSprintRepo(db *sql.DB) *SprintRepo { return &SprintRepo{db: db} }

const sprintColumns = `id, title, description, sprint_type, duration_days, start_date, end_date,
	eligibility, max_participants, is_active, is_accepting_applications, cover_image_url,
	is_paid, ticket_price, early_bird_price, early_bird_seats, created_by, created_at, updated_at`

func scanSprint(s rowScanner) (model.Sprint, error) {
	var sp model.Sprint
	err := s.Scan(&sp.ID, &sp.Title, &sp.Description, &sp.SprintType, &sp.DurationDays,
		&sp.StartDate, &sp.EndDate, &sp.Eligibility, &sp.MaxParticipants, &sp.IsActive,
		&sp.IsAcceptingApplications, &sp.CoverImageURL, &sp.IsPaid, &sp.TicketPrice,
		&sp.EarlyBirdPrice, &sp.EarlyBirdSeats, &sp.CreatedBy, &sp.CreatedAt, &sp.UpdatedAt)
	return sp, err
}

// List returns every sprint, newest first.
func (r *SprintRepo) List(ctx context.Context) ([]model.Sprint, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+sprintColumns+" FROM sprints ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Sprint
	for rows.Next() {
		sp, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sp)
	}
	return out, rows.Err()
}

// GetByID fetches a single sprint.
func (r *SprintRepo) GetByID(ctx context.Context, id string) (model.Sprint, error) {
	sp, err := scanSprint(r.db.QueryRowContext(ctx, "SELECT "+sprintColumns+" FROM sprints WHERE id=?", id))
	return sp, notFound(err)
}

// Create inserts a sprint.  The caller assigns ID and timestamps.
func (r *SprintRepo) Create(ctx context.Context, sp *model.Sprint) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO sprints (id, title, description, sprint_type, duration_days,
		start_date, end_date, eligibility, max_participants, is_active, is_accepting_applications,
		cover_image_url, is_paid, ticket_price, early_bird_price, early_bird_seats, created_by,
		created_at, updated_at) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		sp.ID, sp.Title, sp.Description, sp.SprintType, sp.DurationDays, sp.StartDate, sp.EndDate,
		sp.Eligibility, sp.MaxParticipants, sp.IsActive, sp.IsAcceptingApplications, sp.CoverImageURL,
		sp.IsPaid, sp.TicketPrice, sp.EarlyBirdPrice, sp.EarlyBirdSeats, sp.CreatedBy,
		sp.CreatedAt, sp.UpdatedAt)
	return err
}

// Update overwrites the editable columns of a sprint.
func (r *SprintRepo) Update(ctx context.Context, sp *model.Sprint) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sprints SET title=?, description=?, sprint_type=?,
		duration_days=?, start_date=?, end_date=?, eligibility=?, max_participants=?, is_active=?,
		is_accepting_applications=?, cover_image_url=?, is_paid=?, ticket_price=?, early_bird_price=?,
		early_bird_seats=?, updated_at=? WHERE id=?`,
		sp.Title, sp.Description, sp.SprintType, sp.DurationDays, sp.StartDate, sp.EndDate,
		sp.Eligibility, sp.MaxParticipants, sp.IsActive, sp.IsAcceptingApplications, sp.CoverImageURL,
		sp.IsPaid, sp.TicketPrice, sp.EarlyBirdPrice, sp.EarlyBirdSeats, sp.UpdatedAt, sp.ID)
	return affectedOrNotFound(res, err)
}

// Delete hard-deletes a sprint; its applications go with it through the
// foreign key cascade.
func (r *SprintRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sprints WHERE id=?", id)
	return affectedOrNotFound(res, err)
}

// CountActive returns the number of visible sprints.
func (r *SprintRepo) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sprints WHERE is_active = TRUE").Scan(&n)
	return n, err
}
