package fakebackend

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JuanAndresGH-hub/marketplace/internal/hash"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	authmw "github.com/JuanAndresGH-hub/marketplace/internal/middleware/auth"
	"github.com/JuanAndresGH-hub/marketplace/internal/tokens"
)

const defaultRole = "USUARIO"

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Rol      string `json:"rol" form:"rol"`
}

func (s *Server) bindCredentials(c echo.Context) (credentials, error) {
	var req credentials
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if s.opts.RejectJSONAuth && strings.HasPrefix(ct, echo.MIMEApplicationJSON) {
		return req, echo.NewHTTPError(http.StatusUnsupportedMediaType, "form body required")
	}
	if err := c.Bind(&req); err != nil {
		return req, echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return req, echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}
	return req, nil
}

func (s *Server) register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	req, err := s.bindCredentials(c)
	if err != nil {
		l.Warn("register_error", "error", err)
		return err
	}

	hashed, err := hash.HashPassword(req.Password, s.opts.BcryptCost)
	if err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	role := req.Rol
	if strings.TrimSpace(role) == "" {
		role = defaultRole
	}

	if err := s.repo.createUser(ctx, &User{Username: req.Username, Password: hashed, Rol: role, Enabled: true}); err != nil {
		if errors.Is(err, ErrUserExists) {
			l.Warn("register_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "El usuario ya existe")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("user registered", "username", req.Username)
	return c.String(http.StatusOK, "ok")
}

func (s *Server) login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	req, err := s.bindCredentials(c)
	if err != nil {
		l.Warn("login_error", "error", err)
		return err
	}

	u, err := s.repo.findUser(ctx, req.Username)
	if err != nil && !errors.Is(err, ErrBadCredentials) {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if u == nil || !hash.CheckPassword(u.Password, req.Password) {
		l.Warn("login_failed", "status", 401)
		return echo.NewHTTPError(http.StatusUnauthorized, "Credenciales inválidas")
	}
	if !u.Enabled {
		l.Warn("login_failed", "status", 403, "reason", "disabled")
		return echo.NewHTTPError(http.StatusForbidden, "Usuario deshabilitado")
	}

	token, err := tokens.Sign(u.Username, u.Rol, s.opts.Secret, s.opts.TokenTTL)
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	l.Info("login_successful")
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

func (s *Server) listProducts(c echo.Context) error {
	return s.writeProducts(c, "", "")
}

func (s *Server) searchProducts(c echo.Context) error {
	return s.writeProducts(c, c.QueryParam("pais"), c.QueryParam("tipo"))
}

func (s *Server) writeProducts(c echo.Context, country, productType string) error {
	ctx := c.Request().Context()
	out, err := s.repo.products(ctx, country, productType)
	if err != nil {
		logging.FromContext(ctx).Error("products_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) addToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	var req struct {
		ProductoID uint `json:"productoId"`
		Cantidad   int  `json:"cantidad"`
	}
	if raw := c.QueryParam("productoId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid productoId")
		}
		req.ProductoID = uint(id)
		if q := c.QueryParam("cantidad"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid cantidad")
			}
			req.Cantidad = n
		}
	} else if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ProductoID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "productoId required")
	}
	if req.Cantidad <= 0 {
		req.Cantidad = 1
	}

	entry, err := s.repo.addToCart(ctx, authmw.Username(c), req.ProductoID, req.Cantidad)
	if err != nil {
		if errors.Is(err, ErrProductNotFound) {
			l.Warn("add_to_cart_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "Producto no existe")
		}
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	l.Info("item added successfully to cart")
	return c.JSON(http.StatusOK, entry)
}

func (s *Server) getCart(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := s.repo.cart(ctx, authmw.Username(c))
	if err != nil {
		logging.FromContext(ctx).Error("get_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, items)
}

func (s *Server) deleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := s.repo.deleteLine(ctx, authmw.Username(c), uint(id)); err != nil {
		logging.FromContext(ctx).Error("delete_from_cart_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	return c.NoContent(http.StatusNoContent)
}
