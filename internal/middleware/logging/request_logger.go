package loggingmw

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	authmw "github.com/JuanAndresGH-hub/marketplace/internal/middleware/auth"
)

// Config tunes RequestLoggerWithConfig. Skipper suppresses the completion
// line only; the handler still gets a request-scoped logger.
type Config struct {
	Logger  *slog.Logger
	Skipper ecM.Skipper
}

// SkipHealthChecks keeps liveness polling out of the request log.
func SkipHealthChecks(c echo.Context) bool {
	return strings.HasPrefix(c.Path(), "/health/")
}

// RequestLogger is RequestLoggerWithConfig with health checks skipped.
func RequestLogger(base *slog.Logger) echo.MiddlewareFunc {
	return RequestLoggerWithConfig(Config{Logger: base, Skipper: SkipHealthChecks})
}

// RequestLoggerWithConfig puts a logger tagged with the route and the
// handler serving it into the request context, then logs one line per
// completed request with the authenticated user when there is one.
func RequestLoggerWithConfig(cfg Config) echo.MiddlewareFunc {
	base := cfg.Logger
	if base == nil {
		base = logging.Discard()
	}
	skip := cfg.Skipper
	if skip == nil {
		skip = ecM.DefaultSkipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			rid := req.Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = c.Response().Header().Get(echo.HeaderXRequestID)
			}

			l := base.With(
				"method", req.Method,
				"route", c.Path(),
				"url", req.URL.Path,
				"remote_ip", c.RealIP(),
			)
			if h := handlerName(c); h != "" {
				l = l.With("handler", h)
			}
			if rid != "" {
				l = l.With("request_id", rid)
				c.Response().Header().Set(echo.HeaderXRequestID, rid)
			}
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), l)))

			start := time.Now()
			err := next(c)
			dur := time.Since(start)
			if err != nil {
				c.Echo().HTTPErrorHandler(err, c)
			}
			if skip(c) {
				return nil
			}

			status := c.Response().Status
			attrs := []any{"status", status, "duration_ms", dur.Milliseconds()}
			if user := authmw.Username(c); user != "" {
				attrs = append(attrs, "username", user)
			}
			switch {
			case err != nil || status >= 500:
				l.Error("request completed", append(attrs, "error", errStr(err))...)
			case status >= 400:
				l.Warn("request completed", attrs...)
			default:
				l.Info("request completed", append(attrs, "bytes", c.Response().Size)...)
			}
			return nil
		}
	}
}

// handlerName is the short name echo recorded for the matched route,
// e.g. "GetView" for a (*StoreHTTP).GetView method value.
func handlerName(c echo.Context) string {
	method, path := c.Request().Method, c.Path()
	if path == "" {
		return ""
	}
	for _, r := range c.Echo().Routes() {
		if r.Method != method || r.Path != path {
			continue
		}
		name := r.Name
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		return strings.TrimSuffix(name, "-fm")
	}
	return ""
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
