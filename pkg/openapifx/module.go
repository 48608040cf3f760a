package openapifx

import (
	"github.com/go-core-fx/logger"
	"go.uber.org/fx"
)

// Module provides the Swagger UI handler. The *swag.Spec is optional, without
// it the handler mounts nothing.
func Module() fx.Option {
	return fx.Module(
		"openapifx",
		logger.WithNamedLogger("openapifx"),
		fx.Provide(
			fx.Annotate(New, fx.ParamTags(``, `optional:"true"`)),
		),
	)
}
