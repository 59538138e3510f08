package router

import (
	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/handler"
	"github.com/codewithtechno/techno-hub/internal/middleware"
)

// AdminRoutes groups the handlers and route-specific middleware of the
// admin surface.
type AdminRoutes struct {
	Catalog   *handler.CatalogHandler
	Admin     *handler.AdminHandler
	Purge     echo.MiddlewareFunc // clears the catalog cache after a write
	BodyLimit echo.MiddlewareFunc // caps multipart uploads
}

// RegisterAdmin registers /v1/admin.  Every route requires the admin role;
// sprint and event writes also purge the public catalog cache.
func RegisterAdmin(e *echo.Echo, r AdminRoutes) {
	g := e.Group("/v1/admin", middleware.Guard(gate.Admin))

	g.POST("/sprints", r.Catalog.CreateSprint, r.Purge)
	g.PATCH("/sprints/:id", r.Catalog.UpdateSprint, r.Purge)
	g.DELETE("/sprints/:id", r.Catalog.DeleteSprint, r.Purge)

	g.POST("/events", r.Catalog.CreateEvent, r.Purge)
	g.PATCH("/events/:id", r.Catalog.UpdateEvent, r.Purge)
	g.DELETE("/events/:id", r.Catalog.DeleteEvent, r.Purge)

	g.GET("/applications", r.Admin.ListApplications)
	g.PATCH("/applications/:id/status", r.Admin.SetApplicationStatus)

	g.GET("/registrations", r.Admin.ListRegistrations)
	g.PATCH("/registrations/:id/status", r.Admin.SetRegistrationStatus)

	g.GET("/dashboard", r.Admin.Dashboard)
	g.POST("/uploads/:bucket", r.Admin.Upload, r.BodyLimit)
}
