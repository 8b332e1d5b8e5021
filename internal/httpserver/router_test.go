package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JuanAndresGH-hub/marketplace/internal/apiclient"
	"github.com/JuanAndresGH-hub/marketplace/internal/cart"
	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
	"github.com/JuanAndresGH-hub/marketplace/internal/fakebackend"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
	"github.com/JuanAndresGH-hub/marketplace/internal/storage"
)

type testEnv struct {
	e       *echo.Echo
	backend *fakebackend.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	backend, err := fakebackend.New(ctx, fakebackend.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	kv := storage.NewMemory()
	sessions := session.NewKVSession(kv)
	client := apiclient.NewClient(apiclient.Config{BaseURL: srv.URL, Sessions: sessions})
	vm, err := catalog.NewViewModel(ctx, session.NewKVPreferences(kv), nil)
	require.NoError(t, err)

	e := New(&Deps{
		Reconciler: cart.NewReconciler(cart.Deps{API: client, View: vm, Sessions: sessions}),
		Auth:       &cart.Auth{API: client, Sessions: sessions},
	})
	return &testEnv{e: e, backend: backend}
}

func (te *testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	te.e.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) viewResponse {
	t.Helper()
	var v viewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	te := newTestEnv(t)
	assert.Equal(t, http.StatusOK, te.do(t, http.MethodGet, "/health/live", "").Code)
}

func TestRequiresLogin(t *testing.T) {
	te := newTestEnv(t)

	rec := te.do(t, http.MethodPost, "/catalog/reload", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = te.do(t, http.MethodPost, "/cart/items/1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	v := decodeView(t, te.do(t, http.MethodGet, "/view", ""))
	assert.False(t, v.LoggedIn)
	assert.Empty(t, v.Products)
}

func TestView_HugePageIsEmpty(t *testing.T) {
	te := newTestEnv(t)
	rec := te.do(t, http.MethodPost, "/auth/register", `{"username":"ana","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	for _, page := range []string{"9223372036854775807", "768614336404564652"} {
		rec = te.do(t, http.MethodGet, "/view?page="+page, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		v := decodeView(t, rec)
		assert.Empty(t, v.Products)
		assert.Equal(t, len(fakebackend.DefaultProducts()), v.Matches)
	}
}

func TestRegisterBrowseAndCart(t *testing.T) {
	te := newTestEnv(t)

	rec := te.do(t, http.MethodPost, "/auth/register", `{"username":"ana","password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	v := decodeView(t, rec)
	assert.True(t, v.LoggedIn)
	assert.Equal(t, "ana", v.Username)
	assert.Equal(t, len(fakebackend.DefaultProducts()), v.TotalProducts)

	v = decodeView(t, te.do(t, http.MethodGet, "/view?page=2&size=3", ""))
	assert.Equal(t, 2, v.Page)
	assert.Equal(t, 3, v.Size)
	assert.Len(t, v.Products, 3)
	assert.Equal(t, len(fakebackend.DefaultProducts()), v.Matches)

	rec = te.do(t, http.MethodPut, "/view/filters", `{"category":"Chocolates","sort":"mayor-precio","query":" "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	v = decodeView(t, rec)
	require.Len(t, v.Products, 3)
	assert.Equal(t, "Toblerone", v.Products[0].Name)
	assert.Equal(t, catalog.SortPriceDesc, v.Sort)

	rec = te.do(t, http.MethodPut, "/view/filters", `{"sort":"cheapest","query":"jet"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	v = decodeView(t, te.do(t, http.MethodGet, "/view", ""))
	assert.Equal(t, " ", v.Query)

	rec = te.do(t, http.MethodPut, "/view/filters", `{"max_price":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = te.do(t, http.MethodPost, "/cart/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	rec = te.do(t, http.MethodPost, "/cart/items/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sum models.CartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Equal(t, float64(8000), sum.Subtotal)
	assert.Equal(t, float64(16000), sum.Total)
	require.Len(t, sum.Items, 2)

	rec = te.do(t, http.MethodPost, "/cart/items/999", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	te.backend.FailNext(http.MethodPost, "/carrito/agregar", http.StatusInternalServerError)
	rec = te.do(t, http.MethodPost, "/cart/items/1", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = te.do(t, http.MethodDelete, "/cart/items/"+sum.Items[0].ID.String(), "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sum))
	assert.Len(t, sum.Items, 1)

	rec = te.do(t, http.MethodPost, "/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var checkout models.CartSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &checkout))
	assert.Equal(t, sum.Total, checkout.Total)
}

func TestFavoritesAndLogout(t *testing.T) {
	te := newTestEnv(t)
	require.Equal(t, http.StatusCreated, te.do(t, http.MethodPost, "/auth/register", `{"username":"ana","password":"p"}`).Code)

	rec := te.do(t, http.MethodPost, "/favorites/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"3","favorite":true}`, rec.Body.String())

	rec = te.do(t, http.MethodPost, "/auth/logout", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	v := decodeView(t, te.do(t, http.MethodGet, "/view", ""))
	assert.False(t, v.LoggedIn)
	assert.Empty(t, v.Products)
	assert.Equal(t, []models.ID{"3"}, v.Favorites)

	rec = te.do(t, http.MethodPost, "/auth/login", `{"username":"ana","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = te.do(t, http.MethodPost, "/auth/login", `{"username":"ana","password":"p"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeView(t, rec).LoggedIn)
}

func TestSearch(t *testing.T) {
	te := newTestEnv(t)
	require.Equal(t, http.StatusCreated, te.do(t, http.MethodPost, "/auth/register", `{"username":"ana","password":"p"}`).Code)

	rec := te.do(t, http.MethodPost, "/catalog/search?pais=Colombia", "")
	require.Equal(t, http.StatusOK, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, 5, v.TotalProducts)
	for _, p := range v.Products {
		assert.Equal(t, "Colombia", p.Country)
	}
}
