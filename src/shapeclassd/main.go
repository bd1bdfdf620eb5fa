package main

import (
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/app"
	"go.uber.org/fx"
)

func opts() fx.Option {
	return fx.Options(
		app.Module,
	)
}

func main() {
	fx.New(opts()).Run()
}
