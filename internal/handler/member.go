package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/service"
)

// MemberHandler serves the signed-in member's own records.
type MemberHandler struct {
	Profiles      *service.ProfileService
	Applications  *service.ApplicationService
	Registrations *service.RegistrationService
}

func NewMemberHandler(p *service.ProfileService, a *service.ApplicationService, r *service.RegistrationService) *MemberHandler {
	return &MemberHandler{Profiles: p, Applications: a, Registrations: r}
}

func (h *MemberHandler) GetProfile(c echo.Context) error {
	p, err := h.Profiles.Get(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	var u model.ProfileUpdate
	if err := bind(c, &u); err != nil {
		return err
	}
	p, err := h.Profiles.Update(c.Request().Context(), caller(c), u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// MyApplications lists the caller's applications with their sprints.
func (h *MemberHandler) MyApplications(c echo.Context) error {
	list, err := h.Applications.ListMine(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return items(c, list)
}

// Apply submits an application to the sprint in the path.  A repeat answers
// 409 with code already_applied.
func (h *MemberHandler) Apply(c echo.Context) error {
	var answers model.ApplicationAnswers
	if err := bind(c, &answers); err != nil {
		return err
	}
	app, err := h.Applications.Create(c.Request().Context(), caller(c), c.Param("id"), answers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, app)
}

// MyRegistrations lists the caller's event registrations with their events.
func (h *MemberHandler) MyRegistrations(c echo.Context) error {
	list, err := h.Registrations.ListMine(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return items(c, list)
}

func (h *MemberHandler) Register(c echo.Context) error {
	g, err := h.Registrations.Register(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, g)
}

// EventRegistrations lists an event's registrations: all of them for an
// admin, the caller's own for a member.
func (h *MemberHandler) EventRegistrations(c echo.Context) error {
	list, err := h.Registrations.ListForEvent(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	return items(c, list)
}

// MyEventRegistration answers {"registration": null} when the caller has
// not registered.
func (h *MemberHandler) MyEventRegistration(c echo.Context) error {
	g, err := h.Registrations.Mine(c.Request().Context(), caller(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"registration": g})
}
