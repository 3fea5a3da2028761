package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"clinicrbac/internal/auth"
	"clinicrbac/internal/errors"
)

// respondError maps a service error to an echo HTTP error. Unclassified
// errors are logged and answered with a generic 500.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		zerolog.Ctx(c.Request().Context()).Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.Message)
}

// currentIdentity returns the identity attached by the authentication middleware.
func currentIdentity(c echo.Context) (auth.Identity, error) {
	identity, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return auth.Identity{}, errors.ErrUnauthorized
	}
	return identity, nil
}

// parseID parses a uuid, reporting notFound when it is malformed.
func parseID(raw string, notFound error) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, notFound
	}
	return id, nil
}
