package config

import (
	"time"

	"github.com/go-core-fx/fiberfx"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/binaries"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/token"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/internal/users"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/badgerfx"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/openapifx"
	"github.com/pashaoleynik97/droid-deploy-svc-sub000/pkg/s3fx"
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(New),
		fx.Provide(func(cfg Config) fiberfx.Config {
			return fiberfx.Config{
				Address:     cfg.HTTP.Address,
				ProxyHeader: cfg.HTTP.ProxyHeader,
				Proxies:     cfg.HTTP.Proxies,
			}
		}),
		fx.Provide(func(cfg Config) openapifx.Config {
			return openapifx.Config{
				Enabled:    cfg.HTTP.OpenAPI.Enabled,
				PublicHost: cfg.HTTP.OpenAPI.PublicHost,
				PublicPath: cfg.HTTP.OpenAPI.PublicPath,
			}
		}),
		fx.Provide(func(cfg Config) badgerfx.Config {
			return badgerfx.Config{
				Dir:        cfg.Storage.DataDir,
				GCInterval: time.Duration(cfg.Storage.GCIntervalSeconds) * time.Second,
			}
		}),
		fx.Provide(func(cfg Config) binaries.Config {
			return binaries.Config{
				Driver: binaries.Driver(cfg.Storage.Binaries.Driver),
				Root:   cfg.Storage.Binaries.FSRoot,
				Prefix: cfg.Storage.Binaries.S3.Prefix,
			}
		}),
		fx.Provide(func(cfg Config) s3fx.Config {
			return s3fx.Config{
				Bucket:       cfg.Storage.Binaries.S3.Bucket,
				Region:       cfg.Storage.Binaries.S3.Region,
				Endpoint:     cfg.Storage.Binaries.S3.Endpoint,
				UsePathStyle: cfg.Storage.Binaries.S3.UsePathStyle,
				AccessKey:    cfg.Storage.Binaries.S3.AccessKey,
				SecretKey:    cfg.Storage.Binaries.S3.SecretKey,
			}
		}),
		fx.Provide(func(cfg Config) token.Config {
			return token.Config{
				Secret:     []byte(cfg.Auth.JWTSecret),
				Issuer:     cfg.Auth.Issuer,
				AccessTTL:  time.Duration(cfg.Auth.AccessTTLSeconds) * time.Second,
				RefreshTTL: time.Duration(cfg.Auth.RefreshTTLSeconds) * time.Second,
			}
		}),
		fx.Provide(func(cfg Config) users.Config {
			return users.Config{
				SuperAdminLogin:    cfg.Bootstrap.Login,
				SuperAdminPassword: cfg.Bootstrap.Password,
			}
		}),
	)
}
