package badgerfx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"badgerfx",
		logger.WithNamedLogger("badgerfx"),
		fx.Provide(New),
		fx.Invoke(func(db *badger.DB, config Config, logger *zap.Logger, lifecycle fx.Lifecycle) {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})

			lifecycle.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("starting badger module", zap.String("dir", config.Dir), zap.Bool("in_memory", config.InMemory))
					go func() {
						defer close(done)
						collectGarbage(ctx, db, config, logger)
					}()
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("stopping badger module")
					cancel()
					<-done
					if err := db.Close(); err != nil {
						return fmt.Errorf("failed to close BadgerDB: %w", err)
					}
					return nil
				},
			})
		}),
	)
}

// collectGarbage rewrites value log files until ctx is done.
func collectGarbage(ctx context.Context, db *badger.DB, config Config, logger *zap.Logger) {
	interval := config.gcInterval()
	if config.InMemory || interval < 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for {
				err := db.RunValueLogGC(defaultGCDiscardRatio)
				if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
					break
				}
				if err != nil {
					logger.Warn("value log gc failed", zap.Error(err))
					break
				}
			}
		}
	}
}
