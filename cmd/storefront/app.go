package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gorm.io/gorm"

	"github.com/JuanAndresGH-hub/marketplace/internal/apiclient"
	"github.com/JuanAndresGH-hub/marketplace/internal/cart"
	"github.com/JuanAndresGH-hub/marketplace/internal/catalog"
	"github.com/JuanAndresGH-hub/marketplace/internal/config"
	"github.com/JuanAndresGH-hub/marketplace/internal/events"
	"github.com/JuanAndresGH-hub/marketplace/internal/logging"
	"github.com/JuanAndresGH-hub/marketplace/internal/session"
	"github.com/JuanAndresGH-hub/marketplace/internal/storage"
)

// app is the wired storefront: storage, stores, client, view-model and
// reconciler.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	events events.Publisher

	sessions session.SessionStore
	prefs    session.PreferencesStore
	client   *apiclient.Client
	view     *catalog.ViewModel
	cart     *cart.Reconciler
	auth     *cart.Auth
}

func loadConfig() *config.Config {
	cfg := config.Load()
	if dbDSN != "" {
		cfg.DatabaseDSN = dbDSN
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	logger := logging.NewWithWriter(os.Stderr, cfg.LogLevel).With("service", "storefront")

	db, err := storage.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	kv := &storage.GormKV{DB: db}
	sessions := session.NewKVSession(kv)
	prefs := session.NewKVPreferences(kv)

	var pub events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		kp, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			closeDB(db)
			return nil, fmt.Errorf("kafka publisher: %w", err)
		}
		pub = kp
	}

	client := apiclient.NewClient(apiclient.Config{
		BaseURL:  cfg.APIURL,
		Origin:   cfg.Origin,
		Timeout:  cfg.HTTPTimeout,
		Sessions: sessions,
		Logger:   logger,
	})

	vm, err := catalog.NewViewModel(ctx, prefs, logger)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	a := &app{
		cfg:      cfg,
		logger:   logger,
		db:       db,
		events:   pub,
		sessions: sessions,
		prefs:    prefs,
		client:   client,
		view:     vm,
		auth:     &cart.Auth{API: client, Sessions: sessions, Logger: logger},
	}
	a.cart = cart.NewReconciler(cart.Deps{
		API:      client,
		View:     vm,
		Sessions: sessions,
		Events:   pub,
		Logger:   logger,
	})
	logger.Debug("storefront wired", "api_url", client.BaseURL(), "db", cfg.DatabaseDSN, "kafka", len(cfg.KafkaBrokers) > 0)
	return a, nil
}

func (a *app) Close() {
	if err := a.events.Close(); err != nil {
		a.logger.Warn("events close failed", "error", err)
	}
	closeDB(a.db)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// withApp runs fn with a freshly wired app and closes it afterwards.
func withApp(ctx context.Context, fn func(ctx context.Context, a *app) error) error {
	a, err := newApp(ctx, loadConfig())
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(logging.IntoContext(ctx, a.logger), a)
}
