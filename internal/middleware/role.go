package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/gate"
)

// Guard enforces a route requirement with the same rules the client gate
// uses for pages.  Where the gate would send a guest to sign in the API
// answers 401; where it would hide an admin page from a member the API
// answers 403.  Authenticate must run first.
func Guard(req gate.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := gate.Decide(SnapshotFrom(c), req)
			switch {
			case d.Action == gate.Render:
				return next(c)
			case d.Action == gate.Redirect && d.To == gate.NotFoundPath:
				return fmt.Errorf("%w: %s role required", apperr.ErrForbidden, req)
			default:
				return apperr.ErrUnauthenticated
			}
		}
	}
}
