package middlewares

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"authd/internal/apierror"
	"authd/internal/token"
)

// CurrentAccessIDContextKey is the key to retrieve the authenticated
// user-access record id from echo.Context.
const CurrentAccessIDContextKey = "current_access_id"

// Authentication returns a bearer-token middleware. It verifies the access
// token and stores the referenced user-access record id into echo.Context;
// it is the sole producer of the identity consumed by the handlers.
func Authentication(issuer *token.Issuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bearer := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))

			claims, err := issuer.Verify(token.KindAccess, bearer)
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					return apierror.ErrAccessTokenExpired
				}
				return apierror.ErrInvalidAccessToken
			}

			c.Set(CurrentAccessIDContextKey, claims.AccessID)
			return next(c)
		}
	}
}

func bearerToken(authorization string) string {
	parts := strings.Split(authorization, " ")
	if len(parts) < 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}
