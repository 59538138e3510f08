package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/codewithtechno/techno-hub/internal/model"
)

// ProfileRepo persists the one-to-one profile of each account.
type ProfileRepo struct{ db *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{db: db} }

const profileColumns = `user_id, full_name, email, phone, bio, portfolio_url, linkedin_url,
	github_url, experience_level, avatar_url, created_at, updated_at`

func scanProfile(s rowScanner) (model.Profile, error) {
	var p model.Profile
	err := s.Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.Bio, &p.PortfolioURL,
		&p.LinkedInURL, &p.GitHubURL, &p.ExperienceLevel, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a profile.  A second profile for the same account yields ErrDuplicate.
func (r *ProfileRepo) Create(ctx context.Context, p *model.Profile) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (user_id, full_name, email, phone, bio,
		portfolio_url, linkedin_url, github_url, experience_level, avatar_url, created_at, updated_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		p.UserID, p.FullName, p.Email, p.Phone, p.Bio, p.PortfolioURL, p.LinkedInURL,
		p.GitHubURL, p.ExperienceLevel, p.AvatarURL, p.CreatedAt, p.UpdatedAt)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Get returns the profile of userID.
func (r *ProfileRepo) Get(ctx context.Context, userID string) (model.Profile, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+profileColumns+" FROM profiles WHERE user_id=?", userID)
	p, err := scanProfile(row)
	return p, notFound(err)
}

// Update overwrites the editable columns of an existing profile.
func (r *ProfileRepo) Update(ctx context.Context, p *model.Profile) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET full_name=?, phone=?, bio=?, portfolio_url=?,
		linkedin_url=?, github_url=?, experience_level=?, avatar_url=?, updated_at=? WHERE user_id=?`,
		p.FullName, p.Phone, p.Bio, p.PortfolioURL, p.LinkedInURL, p.GitHubURL,
		p.ExperienceLevel, p.AvatarURL, p.UpdatedAt, p.UserID)
	return affectedOrNotFound(res, err)
}

// GetMany fetches the profiles of the given accounts in a single query,
// keyed by account id.  Accounts without a profile are absent from the map.
func (r *ProfileRepo) GetMany(ctx context.Context, userIDs []string) (map[string]model.Profile, error) {
	out := make(map[string]model.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(userIDs)), ",")
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE user_id IN ("+placeholders+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out[p.UserID] = p
	}
	return out, rows.Err()
}

// Count returns the number of profiles, which the dashboard reports as users.
func (r *ProfileRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profiles").Scan(&n)
	return n, err
}
