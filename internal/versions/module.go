package versions

import (
	"github.com/go-core-fx/logger"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apk"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"versions",
		logger.WithNamedLogger("versions"),
		fx.Provide(NewRepository, fx.Private),
		fx.Provide(
			func(svc *applications.Service) ApplicationReader { return svc },
			fx.Private,
		),
		fx.Provide(
			func() apk.Extractor { return apk.NewExtractor() },
			fx.Private,
		),
		fx.Provide(NewService),
	)
}
