// Package persistence wires the configured key-value backend into the
// storage adapter and the read-through cache.
package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/shifa-s11/board-task/internal/common/config"
	"github.com/shifa-s11/board-task/internal/common/logger"
	"github.com/shifa-s11/board-task/internal/storage"
)

// Provide opens the backend selected by storage.driver.
func Provide(ctx context.Context, cfg *config.Config, log *logger.Logger) (storage.Backend, func() error, error) {
	sc := cfg.Storage

	var (
		backend storage.Backend
		err     error
	)
	switch sc.Driver {
	case config.StorageDriverMemory:
		backend = storage.NewMemoryBackend()
	case config.StorageDriverSQLite:
		backend, err = storage.NewSQLiteBackend(sc.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
	case config.StorageDriverRedis:
		backend, err = storage.DialRedis(ctx, sc.RedisAddr, sc.RedisDB, sc.RedisPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver: %s", sc.Driver)
	}

	if log != nil {
		log.Info("Storage initialized",
			zap.String("driver", sc.Driver),
			zap.String("path", sc.Path),
			zap.String("redis_addr", sc.RedisAddr))
	}
	return backend, backend.Close, nil
}
