package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/codewithtechno/techno-hub/internal/model"
)

// ApplicationRepo persists sprint applications.  The unique key on
// (user_id, sprint_id) is the authority on duplicate applications.
type ApplicationRepo struct {
	db *sql.DB
}

func NewApplicationRepo(db *sql.DB) *ApplicationRepo { return &ApplicationRepo{db: db} }

const applicationColumns = `a.id, a.user_id, a.sprint_id, a.status, a.motivation, a.experience,
	a.portfolio_link, a.availability, a.additional_info, a.admin_notes, a.reviewed_by,
	a.reviewed_at, a.created_at, a.updated_at`

func applicationDest(a *model.Application) []any {
	return []any{&a.ID, &a.UserID, &a.SprintID, &a.Status, &a.Motivation, &a.Experience,
		&a.PortfolioLink, &a.Availability, &a.AdditionalInfo, &a.AdminNotes, &a.ReviewedBy,
		&a.ReviewedAt, &a.CreatedAt, &a.UpdatedAt}
}

// Create inserts a new application.  A second application by the same
// account to the same sprint yields ErrDuplicate and leaves the table
// unchanged.
func (r *ApplicationRepo) Create(ctx context.Context, a *model.Application) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO applications (id, user_id, sprint_id, status, motivation,
		experience, portfolio_link, availability, additional_info, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.UserID, a.SprintID, a.Status, a.Motivation, a.Experience, a.PortfolioLink,
		a.Availability, a.AdditionalInfo, a.CreatedAt, a.UpdatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// GetByID fetches a single application.
func (r *ApplicationRepo) GetByID(ctx context.Context, id string) (model.Application, error) {
	var a model.Application
	err := r.db.QueryRowContext(ctx, "SELECT "+applicationColumns+" FROM applications a WHERE a.id=?", id).
		Scan(applicationDest(&a)...)
	return a, notFound(err)
}

// ListByUser returns the applications of one account joined with their
// sprint, newest first.
func (r *ApplicationRepo) ListByUser(ctx context.Context, userID string) ([]model.ApplicationWithSprint, error) {
	return r.listWithSprint(ctx, "WHERE a.user_id = ?", []any{userID}, 0)
}

// ListAll returns every application joined with its sprint, newest first.
func (r *ApplicationRepo) ListAll(ctx context.Context) ([]model.ApplicationWithSprint, error) {
	return r.listWithSprint(ctx, "", nil, 0)
}

// Recent returns the latest limit applications.
func (r *ApplicationRepo) Recent(ctx context.Context, limit int) ([]model.ApplicationWithSprint, error) {
	return r.listWithSprint(ctx, "", nil, limit)
}

func (r *ApplicationRepo) listWithSprint(ctx context.Context, where string, args []any, limit int) ([]model.ApplicationWithSprint, error) {
	q := "SELECT " + applicationColumns + `, s.title, s.sprint_type, s.start_date, s.end_date
		FROM applications a JOIN sprints s ON s.id = a.sprint_id ` + where + " ORDER BY a.created_at DESC"
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.ApplicationWithSprint
	for rows.Next() {
		var row model.ApplicationWithSprint
		dest := append(applicationDest(&row.Application),
			&row.Sprint.Title, &row.Sprint.SprintType, &row.Sprint.StartDate, &row.Sprint.EndDate)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// SetStatus records an admin review.  A nil notes keeps the stored notes.
func (r *ApplicationRepo) SetStatus(ctx context.Context, id string, status model.ApplicationStatus, notes *string, reviewer string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE applications SET status=?, admin_notes=COALESCE(?, admin_notes),
		reviewed_by=?, reviewed_at=?, updated_at=? WHERE id=?`,
		status, notes, reviewer, at, at, id)
	return affectedOrNotFound(res, err)
}

// Stats counts applications by review state.
func (r *ApplicationRepo) Stats(ctx context.Context) (model.ApplicationStats, error) {
	var s model.ApplicationStats
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*),
		COALESCE(SUM(status = 'pending'), 0), COALESCE(SUM(status = 'accepted'), 0) FROM applications`).
		Scan(&s.Total, &s.Pending, &s.Accepted)
	return s, err
}
