package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/config"
)

// ErrStoreUnavailable is returned when no database is configured or it cannot be opened.
var ErrStoreUnavailable = errors.New("store unavailable")

// Provider hands out the process wide *gorm.DB. The connection is opened and
// migrated on first use; a failed open is retried on the next call.
type Provider struct {
	cfg config.DatabaseConfig

	mu sync.Mutex
	db *gorm.DB
}

func NewProvider(cfg config.DatabaseConfig) *Provider {
	return &Provider{cfg: cfg}
}

// NewStaticProvider wraps an already opened database. A nil db yields a provider
// that always reports ErrStoreUnavailable.
func NewStaticProvider(db *gorm.DB) *Provider {
	return &Provider{db: db}
}

// DB returns the shared database bound to ctx.
func (p *Provider) DB(ctx context.Context) (*gorm.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db.WithContext(ctx), nil
	}
	if p.cfg.DSN == "" {
		return nil, ErrStoreUnavailable
	}

	db, err := InitGormDB(p.cfg)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := AutoMigrateModels(db); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	p.db = db
	return p.db.WithContext(ctx), nil
}

// Close releases the underlying connection pool if it was opened.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db == nil {
		return nil
	}
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	p.db = nil
	return sqlDB.Close()
}
