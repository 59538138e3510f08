package router

import (
	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/gate"
	"github.com/codewithtechno/techno-hub/internal/handler"
	"github.com/codewithtechno/techno-hub/internal/middleware"
)

// RegisterMember registers the endpoints any signed-in account may call.
// The guard is attached per route because these paths share /v1 with the
// public catalog.
func RegisterMember(e *echo.Echo, h *handler.MemberHandler) {
	member := middleware.Guard(gate.Member)

	e.GET("/v1/me/profile", h.GetProfile, member)
	e.PUT("/v1/me/profile", h.UpdateProfile, member)
	e.GET("/v1/me/applications", h.MyApplications, member)
	e.GET("/v1/me/registrations", h.MyRegistrations, member)

	e.POST("/v1/sprints/:id/applications", h.Apply, member)

	e.POST("/v1/events/:id/registrations", h.Register, member)
	e.GET("/v1/events/:id/registrations", h.EventRegistrations, member)
	e.GET("/v1/events/:id/registrations/me", h.MyEventRegistration, member)
}
