package internal

import (
	"context"

	"github.com/capcom6/go-infra-fx/validator"
	"github.com/go-core-fx/fiberfx"
	"github.com/go-core-fx/healthfx"
	"github.com/go-core-fx/logger"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/apikeys"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/applications"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/auth"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/binaries"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/config"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/server"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/token"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/versions"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/badgerfx"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/openapifx"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Run() {
	fx.New(
		// CORE MODULES
		logger.Module(),
		logger.WithFxDefaultLogger(),
		badgerfx.Module(),
		healthfx.Module(),
		fiberfx.Module(),
		validator.Module,
		openapifx.Module(),
		//
		// APP MODULES
		config.Module(),
		server.Module(),
		token.Module(),
		//
		// BUSINESS MODULES
		fx.Provide(func() healthfx.Version { return healthfx.Version{Version: "0.1.0", ReleaseID: 1} }),
		users.Module(),
		applications.Module(),
		apikeys.Module(),
		auth.Module(),
		binaries.Module(),
		versions.Module(),
		//
		// LIFECYCLE MANAGEMENT
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					logger.Info("🚀 DroidDeploy application starting up")
					return nil
				},
				OnStop: func(_ context.Context) error {
					logger.Info("🛑 DroidDeploy application shutting down gracefully")
					return nil
				},
			})
		}),
	).Run()
}
