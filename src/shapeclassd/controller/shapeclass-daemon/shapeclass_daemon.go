// Package shapeclassdaemon implements the per-connection session lifecycle and classify flow.
package shapeclassdaemon

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/classifier"
	notifier "github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/client-notifier"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/clock"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/wsfx"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/repository/session"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/raster"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=shapeclass_daemon.go -destination=shapeclassdaemonmock/shapeclass_daemon_mock.go -package=shapeclassdaemonmock

const (
	// Configuration keys
	_configKeyCanvas  = "canvas"
	_configKeyTimeout = "classify.timeout"

	_defaultTimeout = 5 * time.Second

	// Metric names
	_metricRequests  = "classify.requests"
	_metricSuccess   = "classify.success"
	_metricErrors    = "classify.errors"
	_metricDiscarded = "classify.discarded"
	_metricLatency   = "classify.latency"
)

// Controller orchestrates the session lifecycle for each connection.
type Controller interface {
	// InitSession creates a Connected session for conn and greets the client.
	InitSession(ctx context.Context, conn wsfx.Conn) (uuid.UUID, error)
	// Classify handles one classify event for the session in ctx.
	// Exactly one classification event is emitted for every accepted request.
	Classify(ctx context.Context, payload json.RawMessage) error
	// EndSession disconnects the session and releases its resources.
	EndSession(ctx context.Context, id uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Config     config.Provider
	Sessions   session.Repository
	Notifier   notifier.Gateway
	Classifier classifier.Controller
	Clock      clock.Clock
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type controller struct {
	sessions   session.Repository
	notifier   notifier.Gateway
	classifier classifier.Controller
	clock      clock.Clock
	logger     *zap.SugaredLogger
	stats      tally.Scope

	canvas   raster.CanvasSpec
	renderer *raster.Renderer
	timeout  time.Duration
}

// New constructs the session controller.
func New(p Params) (Controller, error) {
	canvas, timeout, err := processConfig(p.Config)
	if err != nil {
		return nil, err
	}

	renderer, err := raster.NewRenderer(canvas)
	if err != nil {
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	return &controller{
		sessions:   p.Sessions,
		notifier:   p.Notifier,
		classifier: p.Classifier,
		clock:      p.Clock,
		logger:     p.Logger,
		stats:      p.Stats,
		canvas:     canvas,
		renderer:   renderer,
		timeout:    timeout,
	}, nil
}

func processConfig(cfg config.Provider) (raster.CanvasSpec, time.Duration, error) {
	canvas := raster.DefaultCanvasSpec()
	if err := cfg.Get(_configKeyCanvas).Populate(&canvas); err != nil {
		return raster.CanvasSpec{}, 0, fmt.Errorf("getting config field %q: %w", _configKeyCanvas, err)
	}
	if err := canvas.Validate(); err != nil {
		return raster.CanvasSpec{}, 0, fmt.Errorf("invalid config field %q: %w", _configKeyCanvas, err)
	}

	timeout := _defaultTimeout
	if v := cfg.Get(_configKeyTimeout); v.HasValue() {
		if err := v.Populate(&timeout); err != nil {
			return raster.CanvasSpec{}, 0, fmt.Errorf("getting config field %q: %w", _configKeyTimeout, err)
		}
	}
	if timeout <= 0 {
		return raster.CanvasSpec{}, 0, fmt.Errorf("config field %q must be positive, got %s", _configKeyTimeout, timeout)
	}

	return canvas, timeout, nil
}
