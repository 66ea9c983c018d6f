package db

import (
	"context"
	"fmt"
	"time"

	"github.com/restaurant/services/menu/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB wraps the GORM database connection
type DB struct {
	*gorm.DB
}

var _ store.Store = (*DB)(nil)

// Connect opens a pooled connection using the named driver ("postgres" or
// "sqlite").
func Connect(driver, dsn string) (*DB, error) {
	switch driver {
	case "postgres":
		return Open(postgres.Open(dsn), 100)
	case "sqlite":
		// SQLite allows a single writer; one pooled connection also keeps
		// ":memory:" databases from splitting across connections.
		return Open(sqlite.Open(dsn), 1)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open wraps an already configured dialector.
func Open(dialector gorm.Dialector, maxOpenConns int) (*DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Warn),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

// Acquire checks a dedicated connection out of the pool and binds a GORM
// session to it.
func (db *DB) Acquire(ctx context.Context) (store.Conn, error) {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, err
	}

	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	tx := db.DB.Session(&gorm.Session{NewDB: true, Context: ctx})
	tx.Statement.ConnPool = conn

	return &gormConn{tx: tx, conn: conn}, nil
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (db *DB) Close(context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
