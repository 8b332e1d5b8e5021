package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
)

var ErrValidation = errors.New("validation")

// ViewModel holds the fetched products and cart plus the local filter
// controls. Readers get copies; the derived views are recomputed on demand.
type ViewModel struct {
	mu     sync.RWMutex
	state  State
	prefs  session.PreferencesStore
	logger *slog.Logger
}

// NewViewModel restores the persisted favorites. A nil prefs store keeps
// favorites in memory only.
func NewViewModel(ctx context.Context, prefs session.PreferencesStore, logger *slog.Logger) (*ViewModel, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	vm := &ViewModel{
		state:  NewState(),
		prefs:  prefs,
		logger: logger.With("component", "catalog"),
	}
	if prefs == nil {
		return vm, nil
	}

	ids, err := prefs.GetFavorites(ctx)
	if err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	for _, id := range ids {
		vm.state.Favorites[models.ID(id)] = struct{}{}
	}
	return vm, nil
}

func (vm *ViewModel) Snapshot() State {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.state.clone()
}

// SetProducts replaces the catalog and resets the price filter to the new
// upper bound.
func (vm *ViewModel) SetProducts(products []models.Product) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.state.Products = append([]models.Product(nil), products...)
	if len(products) > 0 {
		_, vm.state.MaxPrice = PriceBounds(products)
	}
}

func (vm *ViewModel) SetCart(lines []models.CartLine) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.state.Cart = append([]models.CartLine(nil), lines...)
}

func (vm *ViewModel) Cart() []models.CartLine {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return append([]models.CartLine(nil), vm.state.Cart...)
}

func (vm *ViewModel) SetQuery(q string) {
	vm.mu.Lock()
	vm.state.Query = q
	vm.mu.Unlock()
}

func (vm *ViewModel) SetCategory(c string) {
	if c == "" {
		c = AllCategories
	}
	vm.mu.Lock()
	vm.state.Category = c
	vm.mu.Unlock()
}

func (vm *ViewModel) SetMaxPrice(p float64) error {
	if p < 0 {
		return fmt.Errorf("max price %v: %w", p, ErrValidation)
	}
	vm.mu.Lock()
	vm.state.MaxPrice = p
	vm.mu.Unlock()
	return nil
}

func (vm *ViewModel) SetSort(m SortMode) {
	vm.mu.Lock()
	vm.state.Sort = m
	vm.mu.Unlock()
}

// ToggleFavorite flips id in the favorite set and persists the whole set.
// It reports whether id is a favorite afterwards. On a storage failure the
// set is left as it was.
func (vm *ViewModel) ToggleFavorite(ctx context.Context, id models.ID) (bool, error) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	_, had := vm.state.Favorites[id]
	if had {
		delete(vm.state.Favorites, id)
	} else {
		vm.state.Favorites[id] = struct{}{}
	}

	if vm.prefs != nil {
		if err := vm.prefs.SetFavorites(ctx, idStrings(favoriteIDs(vm.state.Favorites))); err != nil {
			if had {
				vm.state.Favorites[id] = struct{}{}
			} else {
				delete(vm.state.Favorites, id)
			}
			vm.logger.Error("toggle_favorite_error", "product_id", id, "error", err)
			return had, fmt.Errorf("persist favorites: %w", err)
		}
	}
	return !had, nil
}

func (vm *ViewModel) IsFavorite(id models.ID) bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	_, ok := vm.state.Favorites[id]
	return ok
}

func (vm *ViewModel) Favorites() []models.ID {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return favoriteIDs(vm.state.Favorites)
}

func favoriteIDs(set map[models.ID]struct{}) []models.ID {
	out := make([]models.ID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func idStrings(ids []models.ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (vm *ViewModel) Filtered() []models.Product {
	return Filter(vm.Snapshot())
}

func (vm *ViewModel) Categories() []string {
	return Categories(vm.Snapshot().Products)
}

func (vm *ViewModel) PriceBounds() (lo, hi float64) {
	return PriceBounds(vm.Snapshot().Products)
}

func (vm *ViewModel) CartCount() int {
	return CartCount(vm.Snapshot().Cart)
}

func (vm *ViewModel) CartSummary() models.CartSummary {
	s := vm.Snapshot()
	return Summarize(s.Cart, s.Products)
}

// View is everything a rendering layer needs, computed from one snapshot.
type View struct {
	Products      []models.Product   `json:"products"`
	TotalProducts int                `json:"total_products"`
	Categories    []string           `json:"categories"`
	MinPrice      float64            `json:"min_price"`
	MaxPriceBound float64            `json:"max_price_bound"`
	Query         string             `json:"query"`
	Category      string             `json:"category"`
	MaxPrice      float64            `json:"max_price"`
	Sort          SortMode           `json:"sort"`
	Favorites     []models.ID        `json:"favorites"`
	CartCount     int                `json:"cart_count"`
	Cart          models.CartSummary `json:"cart"`
}

func (vm *ViewModel) View() View {
	s := vm.Snapshot()
	lo, hi := PriceBounds(s.Products)
	return View{
		Products:      Filter(s),
		TotalProducts: len(s.Products),
		Categories:    Categories(s.Products),
		MinPrice:      lo,
		MaxPriceBound: hi,
		Query:         s.Query,
		Category:      s.Category,
		MaxPrice:      s.MaxPrice,
		Sort:          s.Sort,
		Favorites:     favoriteIDs(s.Favorites),
		CartCount:     CartCount(s.Cart),
		Cart:          Summarize(s.Cart, s.Products),
	}
}
