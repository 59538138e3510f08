package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/codewithtechno/techno-hub/internal/model"
)

// UserRepo persists accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const accountColumns = "id,email,password_hash,role,created_at,updated_at"

// Create inserts the account.  The email is normalized before insert and a
// duplicate yields ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, a *model.Account) error {
	a.Email = NormalizeEmail(a.Email)
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO accounts (id, email, password_hash, role, created_at, updated_at) VALUES (?,?,?,?,?,?)",
		a.ID, a.Email, a.PasswordHash, a.Role, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.Account, error) {
	return r.getOne(ctx, "SELECT "+accountColumns+" FROM accounts WHERE email=? LIMIT 1", NormalizeEmail(email))
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (model.Account, error) {
	return r.getOne(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id=? LIMIT 1", id)
}

// SetRoleByEmail changes the role of the account with email.  The API has
// no endpoint for this; operators grant admin with the migrate tool.
func (r *UserRepo) SetRoleByEmail(ctx context.Context, email, role string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE accounts SET role=?, updated_at=? WHERE email=?",
		role, time.Now().UTC(), NormalizeEmail(email))
	return affectedOrNotFound(res, err)
}

func (r *UserRepo) getOne(ctx context.Context, q string, arg any) (model.Account, error) {
	var a model.Account
	err := r.DB.QueryRowContext(ctx, q, arg).
		Scan(&a.ID, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	return a, notFound(err)
}

// NormalizeEmail lower-cases and trims an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
