package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JuanAndresGH-hub/marketplace/internal/fakebackend"
	"github.com/JuanAndresGH-hub/marketplace/internal/httpserver"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
)

var (
	serveAddr string

	backendAddr       string
	backendDB         string
	backendRejectJSON bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the local view API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return withApp(ctx, runServe)
	},
}

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run a local stand-in for the REST backend",
	Long: `backend serves /auth, /productos and /carrito from a sqlite database
seeded with a small candy catalog. It is meant for demos and manual testing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := loadConfig()
		l := logging.New(cfg.LogLevel).With("service", "fakebackend")
		s, err := fakebackend.New(ctx, fakebackend.Options{
			DSN:            backendDB,
			RejectJSONAuth: backendRejectJSON,
			Logger:         l,
		})
		if err != nil {
			return err
		}
		defer s.Close()

		l.Info("backend listening", "addr", backendAddr, "reject_json_auth", backendRejectJSON)
		return s.Start(ctx, backendAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides STOREFRONT_ADDR)")

	backendCmd.Flags().StringVar(&backendAddr, "addr", ":8080", "listen address")
	backendCmd.Flags().StringVar(&backendDB, "db", ":memory:", "sqlite file or postgres URL")
	backendCmd.Flags().BoolVar(&backendRejectJSON, "reject-json-auth", false, "answer JSON auth bodies with 415")
}

func runServe(ctx context.Context, a *app) error {
	addr := serveAddr
	if addr == "" {
		addr = a.cfg.ListenAddr
	}
	l := a.logger

	if a.auth.LoggedIn(ctx) {
		if err := a.cart.LoadCatalog(ctx); err != nil {
			l.Warn("initial catalog load failed", "error", err)
		}
	}

	e := httpserver.New(&httpserver.Deps{
		Reconciler: a.cart,
		Auth:       a.auth,
		Logger:     l,
	})

	errCh := make(chan error, 1)
	go func() {
		l.Info("view api listening", "addr", addr, "api_url", a.client.BaseURL())
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
