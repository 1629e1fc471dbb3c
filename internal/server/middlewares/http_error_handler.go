package middlewares

import (
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"authd/internal/apierror"
)

// HTTPErrorHandler formats rendered errors. Every handler-level failure is
// converted here; no error crosses the HTTP boundary unconverted.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apierr *apierror.Error
	if errors.As(err, &apierr) {
		_ = c.JSON(apierr.HTTPCode, apierr)
		return
	}

	if err, ok := err.(*echo.HTTPError); ok {
		if err.Code == http.StatusNotFound {
			_ = c.JSON(http.StatusNotFound, echo.Map{
				"message": "404_NOT_FOUND",
			})
			return
		}

		logrus.WithField("code", err.Code).Error(err.Message)
		_ = c.JSON(err.Code, echo.Map{
			"status":  false,
			"message": err.Message,
		})
		return
	}

	internal(err, c)
}

// internal logs the error under an opaque id; the cause is not leaked to the
// caller.
func internal(err error, c echo.Context) {
	id := uuid.Must(uuid.NewV4()).String()
	logrus.WithField("error_id", id).Errorf("%+v", err)

	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"status":  false,
		"message": "INTERNAL_SERVER_ERROR",
	})
}
