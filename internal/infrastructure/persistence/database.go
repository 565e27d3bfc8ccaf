package persistence

import (
	"fmt"
	"time"

	"github.com/sami999khan999/multi-vendor-ecommerce-sub001/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm connection and pool settings.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens a connection with gorm's logging silenced.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	return NewDatabaseWithCustomLogger(cfg, logger.Default.LogMode(logger.Silent))
}

// NewDatabaseWithCustomLogger opens a connection with the given gorm logger,
// typically the zap-backed one from the logger package. The pool is sized
// from the config and the connection is verified with a ping before use.
func NewDatabaseWithCustomLogger(cfg *config.DatabaseConfig, gormLogger logger.Interface) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	if err := sizePool(db, cfg); err != nil {
		return nil, err
	}
	d := &Database{DB: db}
	if err := d.Ping(); err != nil {
		return nil, err
	}
	return d, nil
}

func sizePool(db *gorm.DB, cfg *config.DatabaseConfig) error {
	pool, err := db.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	pool.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	return nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	pool, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	return pool.Close()
}

// Ping reports whether the connection is still alive.
func (d *Database) Ping() error {
	pool, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("access connection pool: %w", err)
	}
	if err := pool.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}
