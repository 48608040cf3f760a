package token

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"token",
		logger.WithNamedLogger("token"),
		fx.Provide(New),
	)
}
