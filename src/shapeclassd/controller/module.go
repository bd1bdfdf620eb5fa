package controller

import (
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/classifier"
	shapeclassdaemon "github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/shapeclass-daemon"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Options(
	fx.Provide(shapeclassdaemon.New),
	fx.Provide(classifier.New),
)
