package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JuanAndresGH-hub/marketplace/internal/tokens"
)

const (
	CtxUsername = "username"
	CtxRole     = "role"
)

// RequireBearer validates the Authorization header and stores the subject
// and role in the echo context.
func RequireBearer(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}
			claims, err := tokens.Parse(strings.TrimSpace(raw), secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(CtxUsername, claims.Subject)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

func Username(c echo.Context) string {
	s, _ := c.Get(CtxUsername).(string)
	return s
}
