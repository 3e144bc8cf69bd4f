package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/catalogue/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// connectTimeout bounds the startup ping
const connectTimeout = 5 * time.Second

// Database is the gorm handle shared by every repository, plus the pool
// underneath it
type Database struct {
	DB   *gorm.DB
	pool *sql.DB
}

// Option customises the gorm configuration used by NewDatabase
type Option func(*gorm.Config)

// WithLogger replaces the default silent gorm logger
func WithLogger(l logger.Interface) Option {
	return func(c *gorm.Config) {
		c.Logger = l
	}
}

// NewDatabase connects to PostgreSQL and sizes the pool from cfg. Driver
// errors are translated, so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewDatabase(cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	gormCfg := gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	}
	for _, opt := range opts {
		opt(&gormCfg)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	pool, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}

	pool.SetMaxOpenConns(cfg.MaxOpenConns)
	pool.SetMaxIdleConns(cfg.MaxIdleConns)
	pool.SetConnMaxLifetime(minutes(cfg.ConnMaxLifetime))
	pool.SetConnMaxIdleTime(minutes(cfg.ConnMaxIdleTime))

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping postgres %s:%d: %w", cfg.Host, cfg.Port, err)
	}

	return &Database{DB: db, pool: pool}, nil
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// PingContext reports whether the database answers. It backs the health
// endpoint.
func (d *Database) PingContext(ctx context.Context) error {
	return d.pool.PingContext(ctx)
}

// Close drains the pool
func (d *Database) Close() error {
	return d.pool.Close()
}
