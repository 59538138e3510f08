package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/service"
)

// CatalogHandler serves sprints and events.  Reads are public; the write
// handlers are mounted under the admin group.
type CatalogHandler struct {
	Sprints *service.SprintService
	Events  *service.EventService
}

func NewCatalogHandler(sprints *service.SprintService, events *service.EventService) *CatalogHandler {
	return &CatalogHandler{Sprints: sprints, Events: events}
}

func filterParam(c echo.Context) (string, error) {
	switch f := c.QueryParam("filter"); f {
	case "", FilterOpen, FilterUpcoming:
		return f, nil
	default:
		return "", apperr.Invalid("filter", "must be open or upcoming")
	}
}

// ListSprints returns sprints newest first.  ?filter=open keeps the sprints
// accepting applications, ?filter=upcoming the active ones that are not yet.
func (h *CatalogHandler) ListSprints(c echo.Context) error {
	filter, err := filterParam(c)
	if err != nil {
		return err
	}
	list, err := h.Sprints.List(c.Request().Context())
	if err != nil {
		return err
	}
	open, upcoming := model.PartitionSprints(list)
	switch filter {
	case FilterOpen:
		list = open
	case FilterUpcoming:
		list = upcoming
	}
	return items(c, list)
}

func (h *CatalogHandler) GetSprint(c echo.Context) error {
	sp, err := h.Sprints.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *CatalogHandler) CreateSprint(c echo.Context) error {
	var p model.SprintPatch
	if err := bind(c, &p); err != nil {
		return err
	}
	sp, err := h.Sprints.Create(c.Request().Context(), caller(c), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sp)
}

// UpdateSprint changes only the fields present in the body.
func (h *CatalogHandler) UpdateSprint(c echo.Context) error {
	var p model.SprintPatch
	if err := bind(c, &p); err != nil {
		return err
	}
	sp, err := h.Sprints.Update(c.Request().Context(), caller(c), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sp)
}

func (h *CatalogHandler) DeleteSprint(c echo.Context) error {
	if err := h.Sprints.Delete(c.Request().Context(), caller(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListEvents returns events by date, soonest first, with the same filters
// as ListSprints.
func (h *CatalogHandler) ListEvents(c echo.Context) error {
	filter, err := filterParam(c)
	if err != nil {
		return err
	}
	list, err := h.Events.List(c.Request().Context())
	if err != nil {
		return err
	}
	open, upcoming := model.PartitionEvents(list)
	switch filter {
	case FilterOpen:
		list = open
	case FilterUpcoming:
		list = upcoming
	}
	return items(c, list)
}

func (h *CatalogHandler) GetEvent(c echo.Context) error {
	ev, err := h.Events.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *CatalogHandler) CreateEvent(c echo.Context) error {
	var p model.EventPatch
	if err := bind(c, &p); err != nil {
		return err
	}
	ev, err := h.Events.Create(c.Request().Context(), caller(c), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

func (h *CatalogHandler) UpdateEvent(c echo.Context) error {
	var p model.EventPatch
	if err := bind(c, &p); err != nil {
		return err
	}
	ev, err := h.Events.Update(c.Request().Context(), caller(c), c.Param("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

func (h *CatalogHandler) DeleteEvent(c echo.Context) error {
	if err := h.Events.Delete(c.Request().Context(), caller(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
