package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

type credentialsRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *StoreHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Auth.Login(ctx, req.Username, req.Password); err != nil {
		return httpError(err)
	}
	if err := h.Cart.LoadCatalog(ctx); err != nil {
		l.Error("load_catalog_error", "error", err)
		return httpError(err)
	}
	return h.render(c, http.StatusOK)
}

func (h *StoreHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Auth.Register(ctx, req.Username, req.Password); err != nil {
		return httpError(err)
	}
	if err := h.Cart.LoadCatalog(ctx); err != nil {
		l.Error("load_catalog_error", "error", err)
		return httpError(err)
	}
	return h.render(c, http.StatusCreated)
}

func (h *StoreHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.Auth.Logout(ctx); err != nil {
		logging.FromContext(ctx).Error("logout_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	vm := h.Cart.View()
	vm.SetProducts(nil)
	vm.SetCart(nil)
	return c.NoContent(http.StatusNoContent)
}

func (h *StoreHTTP) Reload(c echo.Context) error {
	if err := h.Cart.LoadCatalog(c.Request().Context()); err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK)
}

func (h *StoreHTTP) Search(c echo.Context) error {
	if err := h.Cart.Search(c.Request().Context(), c.QueryParam("pais"), c.QueryParam("tipo")); err != nil {
		return httpError(err)
	}
	return h.render(c, http.StatusOK)
}

func (h *StoreHTTP) AddToCart(c echo.Context) error {
	if _, err := h.Cart.AddToCart(c.Request().Context(), models.ID(c.Param("productId"))); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.Cart.View().CartSummary())
}

func (h *StoreHTTP) RemoveFromCart(c echo.Context) error {
	if _, err := h.Cart.RemoveFromCart(c.Request().Context(), models.ID(c.Param("lineId"))); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, h.Cart.View().CartSummary())
}

// Checkout only reports the current totals.
func (h *StoreHTTP) Checkout(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Cart.Checkout(c.Request().Context()))
}
