package apikeys

import (
	"github.com/go-core-fx/logger"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"apikeys",
		logger.WithNamedLogger("apikeys"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(
			func(svc *applications.Service) ApplicationFinder { return svc },
			fx.Private,
		),
		fx.Provide(NewService),
	)
}
