package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/JuanAndresGH-hub/marketplace/internal/models"
)

type SortMode string

const (
	SortRelevance SortMode = "relevancia"
	SortPriceAsc  SortMode = "menor-precio"
	SortPriceDesc SortMode = "mayor-precio"
)

func ParseSortMode(s string) (SortMode, error) {
	switch m := SortMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", SortRelevance:
		return SortRelevance, nil
	case SortPriceAsc, SortPriceDesc:
		return m, nil
	}
	return "", fmt.Errorf("unknown sort mode %q: %w", s, ErrValidation)
}

const (
	AllCategories = "Todas"

	FreeShippingThreshold = 80000
	FlatShippingFee       = 8000

	// upper price bound reported for an empty catalog
	emptyCatalogMaxPrice = 100000
	initialMaxPrice      = 999999
)

// State is an immutable snapshot of the view-model. Every projection below
// is a pure function of it.
type State struct {
	Products  []models.Product
	Cart      []models.CartLine
	Query     string
	Category  string
	MaxPrice  float64
	Sort      SortMode
	Favorites map[models.ID]struct{}
}

func NewState() State {
	return State{
		Category:  AllCategories,
		MaxPrice:  initialMaxPrice,
		Sort:      SortRelevance,
		Favorites: map[models.ID]struct{}{},
	}
}

func (s State) clone() State {
	out := s
	out.Products = append([]models.Product(nil), s.Products...)
	out.Cart = append([]models.CartLine(nil), s.Cart...)
	out.Favorites = make(map[models.ID]struct{}, len(s.Favorites))
	for id := range s.Favorites {
		out.Favorites[id] = struct{}{}
	}
	return out
}

// Categories lists AllCategories followed by the distinct non-empty
// categories in first-seen order.
func Categories(products []models.Product) []string {
	out := []string{AllCategories}
	seen := map[string]struct{}{}
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

func PriceBounds(products []models.Product) (lo, hi float64) {
	if len(products) == 0 {
		return 0, emptyCatalogMaxPrice
	}
	lo, hi = products[0].Price, products[0].Price
	for _, p := range products[1:] {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
	}
	return lo, hi
}

// Filter applies max price, category, text query and sort, in that order.
func Filter(s State) []models.Product {
	out := make([]models.Product, 0, len(s.Products))
	for _, p := range s.Products {
		if p.Price <= s.MaxPrice {
			out = append(out, p)
		}
	}

	if s.Category != "" && s.Category != AllCategories {
		kept := out[:0]
		for _, p := range out {
			if p.Category == s.Category {
				kept = append(kept, p)
			}
		}
		out = kept
	}

	if strings.TrimSpace(s.Query) != "" {
		q := strings.ToLower(s.Query)
		kept := out[:0]
		for _, p := range out {
			hay := strings.ToLower(p.Name + " " + p.Category + " " + p.Country)
			if strings.Contains(hay, q) {
				kept = append(kept, p)
			}
		}
		out = kept
	}

	switch s.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

func CartCount(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

func ShippingFee(subtotal float64) float64 {
	if subtotal == 0 || subtotal >= FreeShippingThreshold {
		return 0
	}
	return FlatShippingFee
}

// Summarize joins cart lines with products and derives the totals. Lines
// whose product is unknown get a placeholder priced at zero.
func Summarize(lines []models.CartLine, products []models.Product) models.CartSummary {
	byID := make(map[models.ID]models.Product, len(products))
	for _, p := range products {
		if _, ok := byID[p.ID]; !ok {
			byID[p.ID] = p
		}
	}

	items := make([]models.CartItem, 0, len(lines))
	var subtotal float64
	for _, l := range lines {
		it := models.CartItem{CartLine: l}
		if p, ok := byID[l.ProductID]; ok {
			it.Name, it.Price, it.Image = p.Name, p.Price, p.Image
		} else {
			it.Name = "Producto " + l.ProductID.String()
			it.Image = ImageFor(missingProductCategory)
			it.Missing = true
		}
		it.LineTotal = it.Price * float64(l.Quantity)
		subtotal += it.LineTotal
		items = append(items, it)
	}

	fee := ShippingFee(subtotal)
	return models.CartSummary{
		Items:       items,
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal + fee,
	}
}
