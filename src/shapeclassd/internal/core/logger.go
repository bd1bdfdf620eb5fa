package core

import (
	"fmt"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	_configKeyLogging     = "logging"
	_configKeyServiceName = "service.name"
)

// LoggerModule provides the logger dependencies
var LoggerModule = fx.Options(
	fx.Provide(NewSugaredLogger),
	fx.Provide(NewLogger),
)

// LoggingConfig is the logging block of the service config.
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Development bool     `yaml:"development"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"outputPaths"`
}

func (c LoggingConfig) encoder() (zapcore.Encoder, error) {
	ec := zap.NewProductionEncoderConfig()
	if c.Development {
		ec = zap.NewDevelopmentEncoderConfig()
	}
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	switch c.Encoding {
	case "", "json":
		return zapcore.NewJSONEncoder(ec), nil
	case "console":
		return zapcore.NewConsoleEncoder(ec), nil
	default:
		return nil, fmt.Errorf("unsupported log encoding %q", c.Encoding)
	}
}

func (c LoggingConfig) options() []zap.Option {
	if !c.Development {
		return nil
	}
	return []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
}

// NewLogger exposes the structured logger behind the sugared one.
func NewLogger(sugar *zap.SugaredLogger) *zap.Logger {
	return sugar.Desugar()
}

// NewSugaredLogger builds the process logger from the logging block.
// Every entry carries the service name when one is configured.
func NewSugaredLogger(provider config.Provider) (*zap.SugaredLogger, error) {
	var c LoggingConfig
	if err := provider.Get(_configKeyLogging).Populate(&c); err != nil {
		return nil, fmt.Errorf("getting config field %q: %w", _configKeyLogging, err)
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	enc, err := c.encoder()
	if err != nil {
		return nil, err
	}

	paths := c.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stdout"}
	}
	sink, _, err := zap.Open(paths...)
	if err != nil {
		return nil, fmt.Errorf("opening log outputs: %w", err)
	}

	logger := zap.New(zapcore.NewCore(enc, sink, level), c.options()...)

	var service string
	if err := provider.Get(_configKeyServiceName).Populate(&service); err == nil && service != "" {
		logger = logger.With(zap.String("service", service))
	}
	return logger.Sugar(), nil
}
