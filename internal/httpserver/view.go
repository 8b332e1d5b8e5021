package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/JuanAndresGH-hub/marketplace/internal/cart"
	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
	"github.com/JuanAndresGH-hub/marketplace/internal/util"
)

type StoreHTTP struct {
	Cart *cart.Reconciler
	Auth *cart.Auth
}

type viewResponse struct {
	catalog.View
	Page     int    `json:"page"`
	Size     int    `json:"size"`
	Matches  int    `json:"matches"`
	LoggedIn bool   `json:"logged_in"`
	Username string `json:"username,omitempty"`
}

func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

func (h *StoreHTTP) render(c echo.Context, status int) error {
	ctx := c.Request().Context()
	v := h.Cart.View().View()

	page := queryInt(c, "page")
	if page < 1 {
		page = 1
	}
	_, size := util.Calculate(page, queryInt(c, "size"))

	res := viewResponse{View: v, Page: page, Size: size, Matches: len(v.Products)}
	res.Products = util.Page(v.Products, page, size)
	if s, err := h.Auth.Current(ctx); err == nil {
		res.LoggedIn = true
		res.Username = s.Username
	}
	return c.JSON(status, res)
}

func (h *StoreHTTP) GetView(c echo.Context) error {
	return h.render(c, http.StatusOK)
}

type filtersRequest struct {
	Query    *string  `json:"query"`
	Category *string  `json:"category"`
	MaxPrice *float64 `json:"max_price"`
	Sort     *string  `json:"sort"`
}

// SetFilters applies every present field, or none when one is invalid.
func (h *StoreHTTP) SetFilters(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "view.filters")

	var req filtersRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_filters_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var sortMode catalog.SortMode
	if req.Sort != nil {
		m, err := catalog.ParseSortMode(*req.Sort)
		if err != nil {
			l.Warn("set_filters_error", "status", 400, "error", err)
			return httpError(err)
		}
		sortMode = m
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}

	vm := h.Cart.View()
	if req.Query != nil {
		vm.SetQuery(*req.Query)
	}
	if req.Category != nil {
		vm.SetCategory(*req.Category)
	}
	if req.MaxPrice != nil {
		if err := vm.SetMaxPrice(*req.MaxPrice); err != nil {
			return httpError(err)
		}
	}
	if req.Sort != nil {
		vm.SetSort(sortMode)
	}
	return h.render(c, http.StatusOK)
}

func (h *StoreHTTP) ToggleFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.toggle")

	id := models.ID(c.Param("id"))
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "id required")
	}
	on, err := h.Cart.View().ToggleFavorite(ctx, id)
	if err != nil {
		l.Error("toggle_favorite_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save favorites")
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "favorite": on})
}
