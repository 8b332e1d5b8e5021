package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

const (
	PathRegister     = "/auth/register"
	PathLogin        = "/auth/login"
	PathProducts     = "/productos"
	PathSearch       = "/productos/buscar"
	PathCartAdd      = "/carrito/agregar"
	PathCart         = "/carrito"
	RoleUser         = "USUARIO"
	queryProductID   = "productoId"
	queryQuantity    = "cantidad"
	queryCountry     = "pais"
	queryProductType = "tipo"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"rol"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Register returns the backend's confirmation text.
func (c *Client) Register(ctx context.Context, username, password, role string) (string, error) {
	res, err := c.Do(ctx, PathRegister, Options{
		Method: http.MethodPost,
		Body:   RegisterRequest{Username: username, Password: password, Role: role},
	})
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return res.Text(), nil
}

func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	res, err := c.Do(ctx, PathLogin, Options{
		Method: http.MethodPost,
		Body:   LoginRequest{Username: username, Password: password},
	})
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	var out LoginResponse
	if err := res.Decode(&out); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("login: empty token: %w", ErrUnexpectedBody)
	}
	return out.Token, nil
}

func (c *Client) Products(ctx context.Context) ([]models.RawProduct, error) {
	var out []models.RawProduct
	if err := c.getJSON(ctx, PathProducts, nil, &out); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// SearchProducts filters on the backend by country of origin and/or type.
// Empty arguments are omitted.
func (c *Client) SearchProducts(ctx context.Context, country, productType string) ([]models.RawProduct, error) {
	q := url.Values{}
	if country != "" {
		q.Set(queryCountry, country)
	}
	if productType != "" {
		q.Set(queryProductType, productType)
	}
	var out []models.RawProduct
	if err := c.getJSON(ctx, PathSearch, q, &out); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return out, nil
}

// AddToCart asks the backend to add quantity units of a product. The
// returned line is nil when the backend answers without a JSON body or
// with one that does not decode as a cart line; the add itself succeeded
// either way, so callers re-read the cart rather than trust the echo.
func (c *Client) AddToCart(ctx context.Context, productID models.ID, quantity int) (*models.CartLine, error) {
	q := url.Values{}
	q.Set(queryProductID, productID.String())
	q.Set(queryQuantity, strconv.Itoa(quantity))

	res, err := c.Do(ctx, PathCartAdd, Options{RequiresAuth: true, Method: http.MethodPost, Query: q})
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}
	if !res.JSON() || len(res.Body) == 0 {
		return nil, nil
	}
	var line models.CartLine
	if err := res.Decode(&line); err != nil {
		logging.FromContextOr(ctx, c.logger).Warn("add_to_cart_body_ignored", "product_id", productID, "error", err)
		return nil, nil
	}
	return &line, nil
}

func (c *Client) Cart(ctx context.Context) ([]models.CartLine, error) {
	var out []models.CartLine
	if err := c.getJSON(ctx, PathCart, nil, &out); err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return out, nil
}

func (c *Client) RemoveFromCart(ctx context.Context, lineID models.ID) error {
	if lineID == "" {
		return errors.New("remove from cart: empty line id")
	}
	_, err := c.Do(ctx, PathCart+"/"+url.PathEscape(lineID.String()), Options{RequiresAuth: true, Method: http.MethodDelete})
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	res, err := c.Do(ctx, path, Options{RequiresAuth: true, Method: http.MethodGet, Query: q})
	if err != nil {
		return err
	}
	return res.Decode(out)
}
