package middleware

// identity.go keeps the caller resolved by Authenticate on the echo context
// and reads it back for guards, handlers, the rate limiter and the request
// logger.

import (
	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/session"
)

const identityKey = "identity"

// SetIdentity stores the authenticated caller on c.
func SetIdentity(c echo.Context, id session.Identity) { c.Set(identityKey, id) }

// IdentityFrom returns the caller stored on c.  The zero Identity means the
// request is anonymous.
func IdentityFrom(c echo.Context) session.Identity {
	id, _ := c.Get(identityKey).(session.Identity)
	return id
}

// SnapshotFrom describes the caller as a session snapshot.  By the time a
// handler runs the identity is always resolved, so the state is Guest or
// Authenticated, never Unknown.
func SnapshotFrom(c echo.Context) session.Snapshot {
	id := IdentityFrom(c)
	if id.AccountID == "" {
		return session.Snapshot{State: session.Guest}
	}
	return session.Snapshot{State: session.Authenticated, Identity: &id}
}

// userID is the key component used by the rate limiter.
func userID(c echo.Context) string {
	if id := IdentityFrom(c); id.AccountID != "" {
		return id.AccountID
	}
	return "anon"
}
