package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JuanAndresGH-hub/marketplace/internal/apiclient"
	"github.com/JuanAndresGH-hub/marketplace/internal/cart"
	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
)

// httpError maps domain and upstream errors to a local status. Upstream
// 4xx answers are passed through; anything else from the backend is a 502.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, cart.ErrNotLoggedIn):
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	case errors.Is(err, cart.ErrValidation), errors.Is(err, catalog.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, apiclient.ErrNetwork):
		return echo.NewHTTPError(http.StatusBadGateway, "backend unreachable")
	}

	if code := apiclient.StatusCode(err); code != 0 {
		if code >= 400 && code < 500 {
			return echo.NewHTTPError(code, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
