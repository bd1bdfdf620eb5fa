package app

import (
	"fmt"
	"os"
	"path"

	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/classifier"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/core"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
)

// Context describes where the service is running.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the service is running locally.
	EnvLocal = "local"

	// EnvDevelopment indicates that the service is running in a development environment.
	EnvDevelopment = "development"

	// Environment variables
	_envShapeclassdEnvironment = "SHAPECLASSD_ENVIRONMENT"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envShapeclassdEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.ShapeFS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %v", err)
	}

	combined, err = ensureDebugExportFolder(combined, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring debug export folder: %v", err)
	}

	return combined, nil
}

// Ensure that all configured logging output directories exist or create if necessary.
func ensureLogFolder(cfg config.Provider, fs fs.ShapeFS) (config.Provider, error) {
	var c core.LoggingConfig
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %v", err)
	}

	for _, outputPath := range c.OutputPaths {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		dir := path.Dir(outputPath)
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating logging directory: %v", err)
		}
	}

	return cfg, nil
}

// Ensure that the raster debug export directory exists when exporting is enabled.
func ensureDebugExportFolder(cfg config.Provider, fs fs.ShapeFS) (config.Provider, error) {
	var c classifier.DebugExportConfig
	if err := cfg.Get("debugExport").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading debug export config: %v", err)
	}

	if c.Enabled && c.Dir != "" {
		if err := fs.MkdirAll(c.Dir); err != nil {
			return nil, fmt.Errorf("creating debug export directory: %v", err)
		}
	}

	return cfg, nil
}
