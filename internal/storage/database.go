package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const pingTimeout = 3 * time.Second

type poolSettings struct {
	maxOpen     int
	maxIdle     int
	maxLifetime time.Duration
	maxIdleTime time.Duration
}

// isMemoryDSN reports whether dsn names an in-memory sqlite database,
// which lives only as long as its connection.
func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:") || strings.Contains(dsn, "mode=memory")
}

func poolFor(dsn string, sqliteFile bool) poolSettings {
	switch {
	case isMemoryDSN(dsn):
		// recycling the single connection would drop every table
		return poolSettings{maxOpen: 1, maxIdle: 1}
	case sqliteFile:
		// sqlite serializes writers anyway
		return poolSettings{maxOpen: 1, maxIdle: 1, maxLifetime: 30 * time.Minute, maxIdleTime: 5 * time.Minute}
	default:
		return poolSettings{maxOpen: 20, maxIdle: 10, maxLifetime: 30 * time.Minute, maxIdleTime: 5 * time.Minute}
	}
}

func configurePool(sqlDB *sql.DB, p poolSettings) {
	sqlDB.SetMaxOpenConns(p.maxOpen)
	sqlDB.SetMaxIdleConns(p.maxIdle)
	sqlDB.SetConnMaxLifetime(p.maxLifetime)
	sqlDB.SetConnMaxIdleTime(p.maxIdleTime)
}

func dialector(dsn string) (gorm.Dialector, bool) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return postgres.Open(dsn), false
	}
	return sqlite.Open(dsn), true
}

func closeDB(db *gorm.DB) {
	if db == nil || db.Config == nil || db.ConnPool == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Connect opens a gorm handle: postgres URLs use the postgres driver,
// anything else is treated as a sqlite file (or ":memory:"). The pool is
// closed again on every error path.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("storage DSN is empty")
	}

	d, isSqlite := dialector(dsn)
	db, err := gorm.Open(d, &gorm.Config{
		Logger:               logger.Default.LogMode(logger.Silent),
		NowFunc:              func() time.Time { return time.Now().UTC() },
		DisableAutomaticPing: true,
	})
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("open storage: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	configurePool(sqlDB, poolFor(dsn, isSqlite))

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping storage: %w", err)
	}

	return db, nil
}

// Open connects and migrates the key/value table.
func Open(ctx context.Context, dsn string) (*gorm.DB, error) {
	db, err := Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migrate storage: %w", err)
	}
	return db, nil
}
