package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/middleware"
)

// AccessResponse tells a client what the page at Path may show to the
// caller.
type AccessResponse struct {
	Path     string        `json:"path"`
	Route    gate.Route    `json:"route"`
	Decision gate.Decision `json:"decision"`
}

// Access runs the page gate for ?path= against the caller's identity.
func Access(c echo.Context) error {
	path := c.QueryParam("path")
	if path == "" {
		return apperr.Invalid("path", "is required")
	}
	route, d := gate.Check(middleware.SnapshotFrom(c), path)
	return c.JSON(http.StatusOK, AccessResponse{Path: path, Route: route, Decision: d})
}
