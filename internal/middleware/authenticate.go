package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"clinicrbac/internal/auth"
	apperrors "clinicrbac/internal/errors"
	"clinicrbac/internal/model"
)

const claimsContextKey = "token_claims"

var errEmptyToken = errors.New("empty bearer token")

// IdentityLoader fetches the current id and role of a user.
type IdentityLoader interface {
	FindIdentity(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// Authenticate rejects requests without a valid bearer token or whose user no
// longer exists, and attaches the caller's auth.Identity to the request context.
// The role attached is the one currently stored, not the one in the token.
func Authenticate(jwtService *auth.JWTService, users IdentityLoader) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ContextKey:  claimsContextKey,
		ParseTokenFunc: func(c echo.Context, header string) (interface{}, error) {
			token := strings.TrimPrefix(header, "Bearer ")
			if token == "" {
				return nil, errEmptyToken
			}
			return jwtService.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized(c, "token rejected", err)
		},
	})

	load := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get(claimsContextKey).(*auth.Claims)
			if !ok {
				return unauthorized(c, "claims missing", nil)
			}

			ctx := c.Request().Context()
			user, err := users.FindIdentity(ctx, claims.IdentityID())
			if err != nil {
				return unauthorized(c, "identity lookup failed", err)
			}

			identity := auth.Identity{ID: user.ID, Role: user.Role}
			c.SetRequest(c.Request().WithContext(auth.WithIdentity(ctx, identity)))
			return next(c)
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(load(next))
	}
}

// unauthorized logs the reason and answers 401 without detail.
func unauthorized(c echo.Context, reason string, err error) error {
	zerolog.Ctx(c.Request().Context()).Warn().
		Err(err).
		Str("reason", reason).
		Str("path", c.Path()).
		Msg("authentication rejected")
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrUnauthorized.Message)
}
