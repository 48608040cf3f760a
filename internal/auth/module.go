package auth

import (
	"github.com/go-core-fx/logger"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"auth",
		logger.WithNamedLogger("auth"),
		fx.Provide(
			func() *Metrics { return NewMetrics(prometheus.DefaultRegisterer) },
			fx.Private,
		),
		fx.Provide(NewService),
	)
}
