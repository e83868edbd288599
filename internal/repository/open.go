package repository

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/config"
	"github.com/tim-martinez/node-form/internal/db"
)

// Open returns the backend selected by cfg.Backend.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (SubmissionStore, error) {
	switch cfg.Backend {
	case config.BackendJSON:
		s := NewJSONStore(cfg.DataDir)
		logger.Info("using json store", zap.String("path", s.Path()))
		return s, nil
	case config.BackendSQLite:
		path := filepath.Join(cfg.DataDir, SQLiteFile)
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		logger.Info("using sqlite store", zap.String("path", path))
		return s, nil
	case config.BackendOxiDB:
		pool, err := db.NewPool(cfg.OxiDBHost, cfg.OxiDBPort, cfg.PoolSize, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to oxidb: %w", err)
		}
		s, err := NewOxiDBStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("using oxidb store",
			zap.String("host", cfg.OxiDBHost),
			zap.Int("port", cfg.OxiDBPort),
			zap.Int("pool_size", cfg.PoolSize))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
