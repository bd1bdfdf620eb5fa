package handler

import (
	controller "github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller"
	shapeclassdaemon "github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/shapeclass-daemon"
	handler "github.com/whiteboard-ai/shapeclass/src/shapeclassd/handler/shapeclass-daemon"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/repository/session"
	"go.uber.org/fx"
)

// Module provides the shapeclassd server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(handler.New),
	fx.Invoke(outputServiceInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m shapeclassdaemon.Controller) {}),
)
