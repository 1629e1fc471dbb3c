package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"authd/internal/server/serializer"
	"authd/internal/server/service"
)

// profile contains the session introspection handlers.
type profile struct {
	profiles service.ProfileService
}

// UserAccess lists the caller's active sessions, one per device.
func (h *profile) UserAccess(c echo.Context) error {
	accesses, err := h.profiles.ActiveSessions(currentAccessID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, service.M{
		"status": true,
		"data":   serializer.UserAccesses(accesses),
	})
}

// LogLogin lists the caller's login history, most recent first.
func (h *profile) LogLogin(c echo.Context) error {
	accesses, err := h.profiles.LoginLog(currentAccessID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, service.M{
		"status": true,
		"data":   serializer.UserAccesses(accesses),
	})
}

// RemoteLogout ends another session of the caller, targeted by record id.
func (h *profile) RemoteLogout(c echo.Context) error {
	logout, err := h.profiles.RemoteLogout(currentAccessID(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, logout)
}
