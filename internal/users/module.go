package users

import (
	"context"

	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"users",
		logger.WithNamedLogger("users"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
		fx.Invoke(func(svc *Service, lc fx.Lifecycle) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return svc.Bootstrap(ctx)
				},
			})
		}),
	)
}
