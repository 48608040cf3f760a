package server

import (
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-core-fx/fiberfx/health"
	"github.com/go-core-fx/fiberfx/validation"
	"github.com/go-core-fx/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/docs"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/handlers/apikeys"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/handlers/applications"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/handlers/auth"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/handlers/users"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/handlers/versions"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server/middleware"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/openapifx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"server",
		logger.WithNamedLogger("server"),

		fx.Provide(func(log *zap.Logger) fiberfx.Options {
			opts := fiberfx.Options{}
			opts.WithErrorHandler(fiberfx.NewJSONErrorHandler(log))
			opts.WithMetrics()
			return opts
		}),
		fx.Supply(docs.SwaggerInfo),

		fx.Provide(middleware.NewAuth, fx.Private),
		fx.Provide(
			fx.Annotate(health.NewHandler, fx.ResultTags(`name:"health-handler"`)), fx.Private,
			fx.Annotate(auth.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(users.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(applications.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(apikeys.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
			fx.Annotate(versions.NewHandler, fx.ResultTags(`group:"handlers"`)), fx.Private,
		),

		fx.Invoke(
			fx.Annotate(
				func(handlers []handler.Handler, healthHandler handler.Handler, openapiHandler *openapifx.Handler, app *fiber.App) {
					// Health endpoint
					healthHandler.Register(app)

					// Version 1 API group
					v1 := app.Group("/api/v1")
					openapiHandler.Register(v1.Group("/docs"))

					v1.Use(validation.Middleware)
					v1.Use(middleware.Errors)

					for _, h := range handlers {
						h.Register(v1)
					}
				},
				fx.ParamTags(`group:"handlers"`, `name:"health-handler"`),
			),
		),
	)
}
