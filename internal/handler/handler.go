// Package handler exposes the platform's HTTP endpoints.  Handlers bind and
// shape requests and responses; every rule lives in the service layer, and
// failures are returned to the shared error handler instead of being
// written here.
package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/middleware"
	"github.com/codewithtechno/techno-hub/internal/session"
)

// Catalog list filters accepted in ?filter=.
const (
	FilterOpen     = "open"
	FilterUpcoming = "upcoming"
)

func bind(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", apperr.ErrValidation)
	}
	return nil
}

func caller(c echo.Context) session.Identity { return middleware.IdentityFrom(c) }

// items writes a list response.  A nil slice is sent as [] so clients never
// have to tell null from empty.
func items[T any](c echo.Context, list []T) error {
	if list == nil {
		list = []T{}
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}
