package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/handler"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/clock"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/core"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/fs"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/serverinfofile"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/workerpool"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/wsfx"
	"go.uber.org/fx"
)

const _serviceName = "shapeclassd"

// Module defines the shapeclassd application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	wsfx.Module,
	workerpool.Module,
	fs.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(clock.New),
	fx.Provide(newRootScope),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

func newRootScope(lc fx.Lifecycle) tally.Scope {
	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags: map[string]string{
			"service": _serviceName,
		},
	}, 1*time.Second)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return rs
}
