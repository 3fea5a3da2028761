package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"clinicrbac/internal/auth"
	apperrors "clinicrbac/internal/errors"
	"clinicrbac/internal/model"
)

// RequireRole lets a request through only when the authenticated identity has
// one of the allowed roles. It must run after Authenticate.
func RequireRole(allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := auth.IdentityFromContext(c.Request().Context())
			if !ok {
				return unauthorized(c, "no identity attached", nil)
			}

			for _, role := range allowed {
				if identity.Role == role {
					return next(c)
				}
			}

			zerolog.Ctx(c.Request().Context()).Warn().
				Str("user_id", identity.ID.String()).
				Str("role", identity.Role.String()).
				Str("path", c.Path()).
				Msg("authorization rejected")
			return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrNotAllowed.Message)
		}
	}
}
