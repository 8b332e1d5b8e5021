package catalog

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

func decodeRaw(t *testing.T, js string) models.RawProduct {
	t.Helper()
	var raw models.RawProduct
	require.NoError(t, json.Unmarshal([]byte(js), &raw))
	return raw
}

func TestNormalize_Price(t *testing.T) {
	tests := []struct {
		name string
		js   string
		want float64
	}{
		{name: "missing", js: `{"id": 1}`, want: 0},
		{name: "null", js: `{"id": 1, "precio": null}`, want: 0},
		{name: "numeric string", js: `{"id": 1, "precio": "1500"}`, want: 1500},
		{name: "number", js: `{"id": 1, "precio": 2500}`, want: 2500},
		{name: "decimal string", js: `{"id": 1, "precio": " 12.5 "}`, want: 12.5},
		{name: "garbage string", js: `{"id": 1, "precio": "mil"}`, want: 0},
		{name: "empty string", js: `{"id": 1, "precio": ""}`, want: 0},
		{name: "negative", js: `{"id": 1, "precio": -3}`, want: 0},
		{name: "object", js: `{"id": 1, "precio": {"v": 1}}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(decodeRaw(t, tt.js)).Price)
		})
	}
}

func TestNormalize_FullRecord(t *testing.T) {
	p := Normalize(decodeRaw(t, `{"id": 3, "nombre": "Jet", "tipo": "Chocolates", "paisOrigen": "Colombia", "precio": "1500", "stock": 20}`))

	assert.Equal(t, models.ID("3"), p.ID)
	assert.Equal(t, "Jet", p.Name)
	assert.Equal(t, "Chocolates", p.Category)
	assert.Equal(t, "Colombia", p.Country)
	assert.Equal(t, float64(1500), p.Price)
	require.NotNil(t, p.Stock)
	assert.Equal(t, 20, *p.Stock)
	assert.Equal(t, []string{"Chocolates", "Colombia"}, p.Tags)
	assert.Equal(t, imagesByCategory["Chocolates"], p.Image)
	assert.Equal(t, DefaultRating, p.Rating)
}

func TestNormalize_MissingFields(t *testing.T) {
	p := Normalize(models.RawProduct{})

	assert.Equal(t, models.ID(""), p.ID)
	assert.Empty(t, p.Name)
	assert.Nil(t, p.Stock)
	assert.Empty(t, p.Tags)
	assert.Equal(t, DefaultImage(), p.Image)

	onlyCountry := Normalize(decodeRaw(t, `{"paisOrigen": "Peru"}`))
	assert.Equal(t, []string{"Peru"}, onlyCountry.Tags)
}

func TestNormalize_Stock(t *testing.T) {
	tests := []struct {
		name string
		js   string
		want *int
	}{
		{name: "missing", js: `{"id": 1}`},
		{name: "negative", js: `{"id": 1, "stock": -1}`},
		{name: "string", js: `{"id": 1, "stock": "7"}`, want: intptr(7)},
		{name: "fraction truncates", js: `{"id": 1, "stock": 3.9}`, want: intptr(3)},
		{name: "huge clamps", js: `{"id": 1, "stock": 1e300}`, want: intptr(math.MaxInt)},
		{name: "two to the 63", js: `{"id": 1, "stock": 9223372036854775808}`, want: intptr(math.MaxInt)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(decodeRaw(t, tt.js)).Stock)
		})
	}
}

func intptr(n int) *int { return &n }

func TestImageFor(t *testing.T) {
	assert.Equal(t, imagesByCategory["Chocolates"], ImageFor("Chocolates"))
	assert.Equal(t, DefaultImage(), ImageFor("chocolates"))
	assert.Equal(t, DefaultImage(), ImageFor("Helados"))
	assert.Equal(t, DefaultImage(), ImageFor(""))
}

func TestNormalize_IsPure(t *testing.T) {
	raw := decodeRaw(t, `{"id": 9, "nombre": "Bon Bon Bum", "tipo": "Caramelos", "precio": 300}`)
	assert.Equal(t, Normalize(raw), Normalize(raw))
	assert.Len(t, NormalizeAll([]models.RawProduct{raw, raw}), 2)
}
