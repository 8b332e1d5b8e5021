package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/JuanAndresGH-hub/marketplace/internal/apiclient"
	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
	"github.com/JuanAndresGH-hub/marketplace/internal/events"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/models"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
)

var (
	ErrValidation  = errors.New("validation")
	ErrNotLoggedIn = errors.New("not logged in")
)

// API is the part of the backend the reconciler talks to.
type API interface {
	Products(ctx context.Context) ([]models.RawProduct, error)
	SearchProducts(ctx context.Context, country, productType string) ([]models.RawProduct, error)
	AddToCart(ctx context.Context, productID models.ID, quantity int) (*models.CartLine, error)
	Cart(ctx context.Context) ([]models.CartLine, error)
	RemoveFromCart(ctx context.Context, lineID models.ID) error
}

// Reconciler keeps the view-model's cart equal to the server's answer. Every
// mutation is followed by a full refetch; the local cart is only replaced
// with what the server returned. Mutations are serialized.
type Reconciler struct {
	api      API
	view     *catalog.ViewModel
	sessions session.SessionStore
	events   events.Publisher
	logger   *slog.Logger

	mu sync.Mutex
}

type Deps struct {
	API      API
	View     *catalog.ViewModel
	Sessions session.SessionStore
	Events   events.Publisher
	Logger   *slog.Logger
}

func NewReconciler(d Deps) *Reconciler {
	r := &Reconciler{
		api:      d.API,
		view:     d.View,
		sessions: d.Sessions,
		events:   d.Events,
		logger:   d.Logger,
	}
	if r.events == nil {
		r.events = events.Noop{}
	}
	if r.logger == nil {
		r.logger = logging.Discard()
	}
	return r
}

func (r *Reconciler) View() *catalog.ViewModel {
	return r.view
}

func (r *Reconciler) log(ctx context.Context, op string) *slog.Logger {
	return logging.FromContextOr(ctx, r.logger).With("op", op)
}

func (r *Reconciler) username(ctx context.Context) (string, error) {
	if r.sessions == nil {
		return "", nil
	}
	s, err := r.sessions.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return "", ErrNotLoggedIn
		}
		return "", err
	}
	return s.Username, nil
}

// LoadCatalog fetches and normalizes the products, then the cart. A failing
// product fetch is returned; a failing cart fetch leaves an empty cart so
// browsing keeps working.
func (r *Reconciler) LoadCatalog(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.log(ctx, "catalog.load")

	if _, err := r.username(ctx); err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	raws, err := r.api.Products(ctx)
	if err != nil {
		l.Error("load_products_error", "status", apiclient.StatusCode(err), "error", err)
		return fmt.Errorf("load products: %w", err)
	}
	r.view.SetProducts(catalog.NormalizeAll(raws))

	lines, err := r.api.Cart(ctx)
	if err != nil {
		l.Warn("load_cart_degraded", "status", apiclient.StatusCode(err), "error", err)
		lines = []models.CartLine{}
	}
	r.view.SetCart(lines)

	l.Info("catalog loaded", "products", len(raws), "cart_lines", len(lines))
	return nil
}

// Search replaces the product set with the backend's filtered listing.
func (r *Reconciler) Search(ctx context.Context, country, productType string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.log(ctx, "catalog.search").With("country", country, "type", productType)

	if _, err := r.username(ctx); err != nil {
		return fmt.Errorf("search: %w", err)
	}

	raws, err := r.api.SearchProducts(ctx, country, productType)
	if err != nil {
		l.Error("search_error", "status", apiclient.StatusCode(err), "error", err)
		return fmt.Errorf("search: %w", err)
	}
	r.view.SetProducts(catalog.NormalizeAll(raws))
	l.Info("search done", "products", len(raws))
	return nil
}

func (r *Reconciler) AddToCart(ctx context.Context, productID models.ID) ([]models.CartLine, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.log(ctx, "cart.add").With("product_id", productID)

	user, err := r.username(ctx)
	if err != nil {
		return nil, fmt.Errorf("add to cart: %w", err)
	}

	if _, err := r.api.AddToCart(ctx, productID, 1); err != nil {
		l.Error("add_to_cart_error", "status", apiclient.StatusCode(err), "error", err)
		return nil, err
	}

	lines, err := r.refresh(ctx, l)
	if err != nil {
		return nil, err
	}

	r.publish(ctx, l, events.Event{Type: events.TypeItemAdded, Username: user, ProductID: productID, CartCount: catalog.CartCount(lines)})
	l.Info("item added to cart", "cart_lines", len(lines))
	return lines, nil
}

func (r *Reconciler) RemoveFromCart(ctx context.Context, lineID models.ID) ([]models.CartLine, error) {
	if lineID == "" {
		return nil, fmt.Errorf("cart line id required: %w", ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.log(ctx, "cart.remove").With("line_id", lineID)

	user, err := r.username(ctx)
	if err != nil {
		return nil, fmt.Errorf("remove from cart: %w", err)
	}

	if err := r.api.RemoveFromCart(ctx, lineID); err != nil {
		l.Error("remove_from_cart_error", "status", apiclient.StatusCode(err), "error", err)
		return nil, err
	}

	lines, err := r.refresh(ctx, l)
	if err != nil {
		return nil, err
	}

	r.publish(ctx, l, events.Event{Type: events.TypeItemRemoved, Username: user, LineID: lineID, CartCount: catalog.CartCount(lines)})
	l.Info("item removed from cart", "cart_lines", len(lines))
	return lines, nil
}

// Checkout is a placeholder: nothing is charged or sent.
func (r *Reconciler) Checkout(ctx context.Context) models.CartSummary {
	sum := r.view.CartSummary()
	r.log(ctx, "cart.checkout").Info("checkout placeholder", "total", sum.Total)
	return sum
}

// refresh must run with r.mu held.
func (r *Reconciler) refresh(ctx context.Context, l *slog.Logger) ([]models.CartLine, error) {
	lines, err := r.api.Cart(ctx)
	if err != nil {
		l.Error("refresh_cart_error", "status", apiclient.StatusCode(err), "error", err)
		return nil, fmt.Errorf("refresh cart: %w", err)
	}
	if lines == nil {
		lines = []models.CartLine{}
	}
	r.view.SetCart(lines)
	return lines, nil
}

func (r *Reconciler) publish(ctx context.Context, l *slog.Logger, e events.Event) {
	e.At = time.Now().UTC()
	if err := r.events.Publish(ctx, e); err != nil {
		l.Error("event publish error", "type", e.Type, "error", err)
	}
}
