package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
	"github.com/JuanAndresGH-hub/marketplace/internal/config"
	"github.com/JuanAndresGH-hub/marketplace/internal/fakebackend"
	"github.com/JuanAndresGH-hub/marketplace/internal/util"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	backend, err := fakebackend.New(context.Background(), fakebackend.Options{BcryptCost: bcrypt.MinCost})
	require.NoError(t, err)
	t.Cleanup(func() { _ = backend.Close() })
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Cleanup(func() {
		config.SetOverride("")
		apiURL, dbDSN, logLevel = "", "", ""
	})
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_SessionCartAndFavorites(t *testing.T) {
	api := setupCLI(t)
	db := filepath.Join(t.TempDir(), "storefront.db")
	common := []string{"--api-url", api, "--db", db}

	out, err := run(t, append([]string{"whoami"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")

	out, err = run(t, append([]string{"register", "ana", "Secret123"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as ana")

	out, err = run(t, append([]string{"whoami"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "ana\n", out)

	out, err = run(t, append([]string{"products", "--category", "Chocolates", "--sort", "menor-precio"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Jet Chocolatina")
	assert.NotContains(t, out, "Trululu")
	assert.Contains(t, out, "3 of 8 products")

	_, err = run(t, append([]string{"products", "--sort", "bogus"}, common...)...)
	assert.Error(t, err)

	out, err = run(t, append([]string{"cart", "add", "7"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Toblerone")
	assert.Contains(t, out, "shipping: 8000")

	out, err = run(t, append([]string{"checkout"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "total to pay: 26000")

	out, err = run(t, append([]string{"fav", "2"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "2 added to favorites")

	out, err = run(t, append([]string{"logout"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	out, err = run(t, append([]string{"fav"}, common...)...)
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	_, err = run(t, append([]string{"cart"}, common...)...)
	assert.Error(t, err)
}

func TestCLI_Search(t *testing.T) {
	api := setupCLI(t)
	db := filepath.Join(t.TempDir(), "storefront.db")
	common := []string{"--api-url", api, "--db", db}

	_, err := run(t, append([]string{"login", "nobody", "x"}, common...)...)
	assert.Error(t, err)

	_, err = run(t, append([]string{"register", "ana", "p"}, common...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"search", "--tipo", "Gomitas"}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "Trululu Gomas")
	assert.Contains(t, out, "Haribo Goldbears")
	assert.NotContains(t, out, "Toblerone")
}

func TestCLI_ProductsHugePage(t *testing.T) {
	api := setupCLI(t)
	db := filepath.Join(t.TempDir(), "storefront.db")
	common := []string{"--api-url", api, "--db", db}
	t.Cleanup(func() { productsPage, productsSize = 1, util.DefaultPageSize })

	_, err := run(t, append([]string{"register", "ana", "Secret123"}, common...)...)
	require.NoError(t, err)

	out, err := run(t, append([]string{"products", "--page", "9223372036854775807",
		"--category", catalog.AllCategories, "--sort", string(catalog.SortRelevance), "--query", ""}, common...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "8 of 8 products")
	assert.NotContains(t, out, "Toblerone")
}
