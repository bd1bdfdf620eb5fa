package gateway

import (
	notifier "github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/client-notifier"
	shapemodel "github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/shape-model"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Options(
	fx.Provide(notifier.New),
	fx.Provide(shapemodel.New),
)
