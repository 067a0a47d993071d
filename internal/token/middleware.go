package token

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	ContextEmail = "email"
	ContextRole  = "role"
)

// Require parses the bearer token and enforces an exact role match. There is
// no role hierarchy: admin does not satisfy a user requirement or vice versa.
func Require(secret []byte, role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			raw := strings.TrimSpace(header[len("Bearer "):])

			claims, err := Parse(secret, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			if claims.Role != role {
				return echo.NewHTTPError(http.StatusForbidden, role+" access required")
			}

			c.Set(ContextEmail, claims.Subject)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}
