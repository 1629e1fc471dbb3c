package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authd/internal/apierror"
	"authd/internal/server/service"
)

// auth contains all authentication handlers.
type auth struct {
	auths service.AuthService
}

// Register handler creates the user and returns its first token pair.
func (h *auth) Register(c echo.Context) error {
	var params service.RegisterParams
	if err := c.Bind(&params); err != nil {
		return apierror.New(http.StatusBadRequest, "INVALID_REQUEST_BODY")
	}
	params.UserAgent = c.Request().UserAgent()

	register, err := h.auths.Register(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, register)
}

// Login handler authenticates a user and opens a new session.
func (h *auth) Login(c echo.Context) error {
	var params service.LoginParams
	if err := c.Bind(&params); err != nil {
		return apierror.New(http.StatusBadRequest, "INVALID_REQUEST_BODY")
	}
	params.UserAgent = c.Request().UserAgent()

	login, err := h.auths.Login(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, login)
}

// Refresh handler rotates a refresh token into a fresh token pair.
func (h *auth) Refresh(c echo.Context) error {
	var params service.RefreshParams
	if err := c.Bind(&params); err != nil {
		return apierror.New(http.StatusBadRequest, "INVALID_REQUEST_BODY")
	}
	params.UserAgent = c.Request().UserAgent()

	refresh, err := h.auths.Refresh(params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, refresh)
}

// Logout handler ends the caller's session.
func (h *auth) Logout(c echo.Context) error {
	logout, err := h.auths.Logout(currentAccessID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, logout)
}
