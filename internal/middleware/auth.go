package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rmaksimov/autoservice/internal/auth"
	"github.com/rmaksimov/autoservice/internal/errs"
	"github.com/rmaksimov/autoservice/internal/server"
)

// bearerPrefix is the expected Authorization scheme.
const bearerPrefix = "Bearer "

// AuthMiddleware enforces bearer-token authentication on business
// routes. A missing, malformed, or expired token short-circuits the
// request with a 401 before any handler logic runs.
type AuthMiddleware struct {
	server *server.Server
	tokens *auth.TokenService
}

// NewAuthMiddleware constructs an AuthMiddleware around the token
// validator.
func NewAuthMiddleware(s *server.Server, tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		tokens: tokens,
	}
}

// RequireAuth is an Echo middleware that validates the Authorization
// header and stores the authenticated identity in Echo context for
// handlers and the request logger.
func (am *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			GetLogger(c).Warn().
				Str("function", "RequireAuth").
				Msg("missing bearer token")
			return errs.NewUnauthorizedError("Missing or invalid Authorization header", false)
		}

		subject, err := am.tokens.Validate(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			GetLogger(c).Warn().
				Err(err).
				Str("function", "RequireAuth").
				Msg("token validation failed")
			return errs.NewUnauthorizedError("Invalid or expired token", false)
		}

		c.Set(UserIDKey, subject)

		GetLogger(c).Debug().
			Str("function", "RequireAuth").
			Str("user_id", subject).
			Msg("request authenticated")

		return next(c)
	}
}
