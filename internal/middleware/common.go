package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/JuanAndresGH-hub/marketplace/internal/middleware/logging"
)

// Common is the middleware chain shared by the local servers.
func Common(l *slog.Logger) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(l),
		ecM.Secure(),
	}
}
