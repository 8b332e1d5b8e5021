// Package httpserver exposes the storefront view-model over a local HTTP
// API for a rendering layer.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/JuanAndresGH-hub/marketplace/internal/cart"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	mw "github.com/JuanAndresGH-hub/marketplace/internal/middleware"
)

type Deps struct {
	Reconciler *cart.Reconciler
	Auth       *cart.Auth
	Logger     *slog.Logger
	// AllowOrigins defaults to "*".
	AllowOrigins []string
}

func New(d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	l := d.Logger
	if l == nil {
		l = logging.Discard()
	}
	for _, m := range mw.Common(l.With("component", "httpserver")) {
		e.Use(m)
	}
	origins := d.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	e.Use(ecM.CORSWithConfig(ecM.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	h := &StoreHTTP{Cart: d.Reconciler, Auth: d.Auth}

	e.GET("/view", h.GetView)
	e.PUT("/view/filters", h.SetFilters)
	e.POST("/favorites/:id", h.ToggleFavorite)

	e.POST("/auth/login", h.Login)
	e.POST("/auth/register", h.Register)
	e.POST("/auth/logout", h.Logout)

	e.POST("/catalog/reload", h.Reload)
	e.POST("/catalog/search", h.Search)
	e.POST("/cart/items/:productId", h.AddToCart)
	e.DELETE("/cart/items/:lineId", h.RemoveFromCart)
	e.POST("/checkout", h.Checkout)
}
