package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codewithtechno/techno-hub/internal/service"
)

// AuthHandler bundles the account endpoints.
type AuthHandler struct {
	Auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{Auth: auth}
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
	All          bool   `json:"all"`
}

// SignUp creates a member account and returns a session (201).
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req service.SignUpInput
	if err := bind(c, &req); err != nil {
		return err
	}
	s, err := h.Auth.SignUp(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

// SignIn verifies credentials and returns a fresh session.
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req service.SignInInput
	if err := bind(c, &req); err != nil {
		return err
	}
	s, err := h.Auth.SignIn(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Refresh exchanges a refresh token for a new pair; the old one is revoked.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	s, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// SignOut revokes the given refresh token, or with "all": true and a valid
// access token every refresh token of the caller.
func (h *AuthHandler) SignOut(c echo.Context) error {
	var req refreshReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if req.All {
		if err := h.Auth.SignOutEverywhere(ctx, caller(c)); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
	if err := h.Auth.SignOut(ctx, req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the caller's current identity.
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := h.Auth.Me(c.Request().Context(), caller(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}
