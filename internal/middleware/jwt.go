package middleware

import (
	"context"
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/session"
	"github.com/codewithtechno/techno-hub/internal/utils"
)

// IdentityReloader reads an identity back from the account store.
type IdentityReloader interface {
	Me(ctx context.Context, who session.Identity) (session.Identity, error)
}

// Authenticate resolves a Bearer access token into a session.Identity on
// the context.  Requests without an Authorization header continue as
// guests; a header that does not verify is rejected with 401 so clients
// holding an expired token know to refresh it.  The secret must match the
// one used when issuing tokens.
//
// When reload is set, tokens carrying the admin role are checked against
// the stored account so a demotion takes effect before the token expires.
// Member tokens are trusted as issued.
func Authenticate(secret string, reload IdentityReloader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" {
				return next(c)
			}
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthenticated)
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
			}
			who := session.Identity{
				AccountID: claims.Subject,
				Email:     claims.Email,
				IsAdmin:   claims.Role == model.RoleAdmin,
			}
			if who.IsAdmin && reload != nil {
				if who, err = reload.Me(c.Request().Context(), who); err != nil {
					return err
				}
			}
			SetIdentity(c, who)
			return next(c)
		}
	}
}
