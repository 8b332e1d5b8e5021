package catalog

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

// DefaultRating is shown for every product; the backend has no ratings.
const DefaultRating = 4.5

const (
	defaultImage = "https://images.unsplash.com/photo-1542751371-adc38448a05e?q=80&w=1200&auto=format&fit=crop"

	// placeholder image for cart lines whose product is not loaded
	missingProductCategory = "Confites"
)

var imagesByCategory = map[string]string{
	"Chocolates":  "https://images.unsplash.com/photo-1606313564200-e75d5e30476e?q=80&w=1200&auto=format&fit=crop",
	"Gomitas":     "https://images.unsplash.com/photo-1600180758890-6b94519a8ba6?q=80&w=1200&auto=format&fit=crop",
	"Caramelos":   "https://images.unsplash.com/photo-1513104890138-7c749659a591?q=80&w=1200&auto=format&fit=crop",
	"Galletas":    "https://images.unsplash.com/photo-1475856033578-76b18d42c07b?q=80&w=1200&auto=format&fit=crop",
	"Confites":    "https://images.unsplash.com/photo-1499636136210-6f4ee915583e?q=80&w=1200&auto=format&fit=crop",
	"Colombianos": "https://images.unsplash.com/photo-1599785209791-98d6aabe5a0e?q=80&w=1200&auto=format&fit=crop",
	"Bebidas":     "https://images.unsplash.com/photo-1542442810-6bd2a7f5f86b?q=80&w=1200&auto=format&fit=crop",
}

// ImageFor looks the category up case-sensitively.
func ImageFor(category string) string {
	if img, ok := imagesByCategory[category]; ok {
		return img
	}
	return defaultImage
}

func DefaultImage() string {
	return defaultImage
}

func Normalize(raw models.RawProduct) models.Product {
	category := deref(raw.Tipo)
	country := deref(raw.PaisOrigen)

	tags := make([]string, 0, 2)
	for _, t := range []string{category, country} {
		if t != "" {
			tags = append(tags, t)
		}
	}

	return models.Product{
		ID:       raw.ID,
		Name:     deref(raw.Nombre),
		Category: category,
		Country:  country,
		Price:    parsePrice(raw.Precio),
		Stock:    parseStock(raw.Stock),
		Tags:     tags,
		Image:    ImageFor(category),
		Rating:   DefaultRating,
	}
}

func NormalizeAll(raws []models.RawProduct) []models.Product {
	out := make([]models.Product, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// parseNumber reads a JSON number or a numeric string.
func parseNumber(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return 0, true
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func parsePrice(raw json.RawMessage) float64 {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return 0
	}
	return v
}

func parseStock(raw json.RawMessage) *int {
	v, ok := parseNumber(raw)
	if !ok || v < 0 {
		return nil
	}
	// float64(math.MaxInt) rounds up to 2^63, which int cannot hold
	n := math.MaxInt
	if v < float64(math.MaxInt) {
		n = int(v)
	}
	return &n
}
