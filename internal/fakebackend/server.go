// Package fakebackend is an in-process stand-in for the storefront REST
// backend. It stores everything in sqlite through gorm and issues HS256
// bearer tokens.
package fakebackend

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	mw "github.com/JuanAndresGH-hub/marketplace/internal/middleware"
	authmw "github.com/JuanAndresGH-hub/marketplace/internal/middleware/auth"
	"github.com/JuanAndresGH-hub/marketplace/internal/storage"
)

type Options struct {
	DSN      string
	Secret   []byte
	TokenTTL time.Duration
	// RejectJSONAuth answers JSON bodies on the auth routes with 415 and
	// only accepts form posts.
	RejectJSONAuth bool
	BcryptCost     int
	// Products seeds the catalog; nil means DefaultProducts.
	Products []Product
	Logger   *slog.Logger
}

type Server struct {
	Echo *echo.Echo
	DB   *gorm.DB

	repo *repo
	opts Options

	mu       sync.Mutex
	failures map[string]int
	hits     map[string]int
}

func New(ctx context.Context, opts Options) (*Server, error) {
	if opts.DSN == "" {
		opts.DSN = ":memory:"
	}
	if len(opts.Secret) == 0 {
		opts.Secret = []byte("fake-backend-secret")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Products == nil {
		opts.Products = DefaultProducts()
	}

	db, err := storage.Connect(ctx, opts.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(&Product{}, &User{}, &CartEntry{}); err != nil {
		return nil, fmt.Errorf("migrate fake backend: %w", err)
	}
	if len(opts.Products) > 0 {
		var n int64
		if err := db.WithContext(ctx).Model(&Product{}).Count(&n).Error; err != nil {
			return nil, fmt.Errorf("count products: %w", err)
		}
		if n == 0 {
			seed := append([]Product(nil), opts.Products...)
			if err := db.WithContext(ctx).Create(&seed).Error; err != nil {
				return nil, fmt.Errorf("seed products: %w", err)
			}
		}
	}

	s := &Server{
		DB:       db,
		repo:     &repo{DB: db},
		opts:     opts,
		failures: map[string]int{},
		hits:     map[string]int{},
	}
	s.Echo = s.routes()
	return s, nil
}

func (s *Server) routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(mw.Common(s.opts.Logger.With("component", "fakebackend"))...)
	e.Use(s.injectFailures)

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.POST("/auth/register", s.register)
	e.POST("/auth/login", s.login)

	private := e.Group("")
	private.Use(authmw.RequireBearer(s.opts.Secret))
	private.GET("/productos", s.listProducts)
	private.GET("/productos/buscar", s.searchProducts)
	private.POST("/carrito/agregar", s.addToCart)
	private.GET("/carrito", s.getCart)
	private.DELETE("/carrito/:id", s.deleteFromCart)

	return e
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Echo.ServeHTTP(w, r)
}

// Start serves on addr until ctx is done.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Echo.Shutdown(shutdownCtx)
}

func (s *Server) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func routeKey(method, path string) string {
	return method + " " + path
}

// FailNext makes the next request to method+path answer with status.
func (s *Server) FailNext(method, path string, status int) {
	s.mu.Lock()
	s.failures[routeKey(method, path)] = status
	s.mu.Unlock()
}

// Hits reports how many requests reached method+path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[routeKey(method, path)]
}

func (s *Server) injectFailures(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := routeKey(c.Request().Method, c.Request().URL.Path)
		s.mu.Lock()
		s.hits[key]++
		status, ok := s.failures[key]
		delete(s.failures, key)
		s.mu.Unlock()

		if ok {
			return echo.NewHTTPError(status, "injected failure")
		}
		return next(c)
	}
}
