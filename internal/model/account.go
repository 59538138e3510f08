package model

import "time"

// Role values stored in accounts.role.  Roles are assigned outside the
// application; sign-up always creates members.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Account is an authenticated identity as stored in the `accounts` table.
type Account struct {
	ID           string    // accounts.id (uuid)
	Email        string    // accounts.email, unique and lower-cased
	PasswordHash string    // accounts.password_hash (bcrypt)
	Role         string    // accounts.role
	CreatedAt    time.Time // accounts.created_at
	UpdatedAt    time.Time // accounts.updated_at
}

// IsAdmin reports whether the account carries the admin role.
func (a Account) IsAdmin() bool { return a.Role == RoleAdmin }

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
