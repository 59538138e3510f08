package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/apperr"
	"github.com/codewithtechno/techno-hub/internal/model"
	"github.com/codewithtechno/techno-hub/internal/service"
)

// AdminHandler serves review, overview and upload endpoints.  Sprint and
// event writes live on CatalogHandler.
type AdminHandler struct {
	Applications  *service.ApplicationService
	Registrations *service.RegistrationService
	Admin         *service.AdminService
	Uploads       *service.UploadService
}

func NewAdminHandler(a *service.ApplicationService, r *service.RegistrationService, d *service.AdminService, u *service.UploadService) *AdminHandler {
	return &AdminHandler{Applications: a, Registrations: r, Admin: d, Uploads: u}
}

type registrationStatusReq struct {
	Status model.RegistrationStatus `json:"status"`
}

func (h *AdminHandler) ListApplications(c echo.Context) error {
	list, err := h.Applications.ListAll(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return items(c, list)
}

// SetApplicationStatus records a review decision and optional notes.
func (h *AdminHandler) SetApplicationStatus(c echo.Context) error {
	var req model.StatusChange
	if err := bind(c, &req); err != nil {
		return err
	}
	app, err := h.Applications.SetStatus(c.Request().Context(), caller(c), c.Param("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, app)
}

func (h *AdminHandler) ListRegistrations(c echo.Context) error {
	list, err := h.Registrations.ListAll(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return items(c, list)
}

func (h *AdminHandler) SetRegistrationStatus(c echo.Context) error {
	var req registrationStatusReq
	if err := bind(c, &req); err != nil {
		return err
	}
	g, err := h.Registrations.SetStatus(c.Request().Context(), caller(c), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (h *AdminHandler) Dashboard(c echo.Context) error {
	d, err := h.Admin.Dashboard(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

// Upload stores the multipart "file" field in the bucket named in the path
// and returns {"url": ...}.
func (h *AdminHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return apperr.Invalid("file", "is required")
		}
		return fmt.Errorf("%w: invalid multipart form", apperr.ErrValidation)
	}
	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, h.Uploads.MaxBytes()+1))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	url, err := h.Uploads.UploadCover(c.Request().Context(), caller(c), c.Param("bucket"), fh.Filename, content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"url": url})
}
