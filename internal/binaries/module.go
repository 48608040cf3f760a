package binaries

import (
	"context"
	"fmt"

	"github.com/go-core-fx/logger"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/s3fx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"binaries",
		logger.WithNamedLogger("binaries"),
		fx.Provide(NewStore),
	)
}

// NewStore builds the Store selected by the configured driver.
func NewStore(config Config, s3Config s3fx.Config, logger *zap.Logger, lc fx.Lifecycle) (Store, error) {
	switch config.Driver {
	case DriverFS, "":
		logger.Info("using filesystem binary store", zap.String("root", config.Root))
		return NewFSStore(config.Root)
	case DriverS3:
		client, err := s3fx.New(context.Background(), s3Config)
		if err != nil {
			return nil, err
		}

		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				logger.Info("using S3 binary store", zap.String("bucket", s3Config.Bucket))
				return s3fx.EnsureBucket(ctx, client, s3Config.Bucket)
			},
		})

		return NewS3Store(client, s3Config.Bucket, config.Prefix), nil
	default:
		return nil, fmt.Errorf("unknown binaries driver %q", config.Driver)
	}
}
