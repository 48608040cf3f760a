package applications

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"applications",
		logger.WithNamedLogger("applications"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(NewService),
	)
}
