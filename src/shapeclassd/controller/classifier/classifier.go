// Package classifier turns a rasterized stroke into a shape label.
package classifier

import (
	"context"
	"fmt"
	"image"
	"path/filepath"

	"github.com/nfnt/resize"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	shapemodel "github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/shape-model"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/fs"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/workerpool"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/raster"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=classifier.go -destination=classifiermock/classifier_mock.go -package=classifiermock

const (
	_configKeyDebugExport = "debugExport"

	_maxIntensity = 255.0
)

// Controller classifies rendered strokes.
type Controller interface {
	// Classify runs the shape model on img and returns the most probable label.
	Classify(ctx context.Context, img *raster.Image) (entity.Result, error)
}

// DebugExportConfig controls writing every classified raster to disk.
type DebugExportConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// Params are inbound parameters to initialize a new classifier controller.
type Params struct {
	fx.In

	Config config.Provider
	Model  shapemodel.Gateway
	Pool   workerpool.Pool
	FS     fs.ShapeFS
	Logger *zap.SugaredLogger
}

type controller struct {
	model  shapemodel.Gateway
	pool   workerpool.Pool
	fs     fs.ShapeFS
	logger *zap.SugaredLogger
	debug  DebugExportConfig
}

// New creates a classifier controller.
func New(p Params) (Controller, error) {
	debug, err := processConfig(p.Config)
	if err != nil {
		return nil, err
	}

	return &controller{
		model:  p.Model,
		pool:   p.Pool,
		fs:     p.FS,
		logger: p.Logger,
		debug:  debug,
	}, nil
}

func processConfig(cfg config.Provider) (DebugExportConfig, error) {
	var debug DebugExportConfig
	if err := cfg.Get(_configKeyDebugExport).Populate(&debug); err != nil {
		return DebugExportConfig{}, fmt.Errorf("getting config field %q: %w", _configKeyDebugExport, err)
	}
	if debug.Enabled && debug.Dir == "" {
		return DebugExportConfig{}, fmt.Errorf("missing field %q in config", _configKeyDebugExport+".dir")
	}
	return debug, nil
}

func (c *controller) Classify(ctx context.Context, img *raster.Image) (entity.Result, error) {
	if img == nil {
		return entity.Result{}, &errors.RenderError{Err: errors.New("no image to classify")}
	}

	if c.debug.Enabled {
		c.export(ctx, img)
	}

	tensor := ToTensor(img, c.model.InputShape())

	var probs []float64
	err := c.pool.Do(ctx, func() error {
		var err error
		probs, err = c.model.Predict(ctx, tensor)
		return err
	})
	if err != nil {
		if panicErr, ok := err.(*workerpool.PanicError); ok {
			return entity.Result{}, &errors.InferenceError{Err: panicErr}
		}
		return entity.Result{}, err
	}

	if len(probs) != len(entity.Labels()) {
		return entity.Result{}, &errors.InferenceError{Err: fmt.Errorf("model returned %d probabilities for %d labels", len(probs), len(entity.Labels()))}
	}

	index, confidence := Argmax(probs)
	label, err := entity.LabelFromIndex(index)
	if err != nil {
		return entity.Result{}, &errors.InferenceError{Err: err}
	}
	return entity.Result{Label: label, Confidence: min(max(confidence, 0), 1)}, nil
}

// export writes img to the debug directory. Failures are logged and never fail the request.
func (c *controller) export(ctx context.Context, img *raster.Image) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		c.logger.Warnw("skipping debug export", "error", err)
		return
	}
	request := mapper.ContextToRequestID(ctx)
	path := filepath.Join(c.debug.Dir, fmt.Sprintf("%s-%d.png", id, request))

	if err := c.fs.MkdirAll(c.debug.Dir); err != nil {
		c.logger.Warnw("debug export failed", "session", id, "request", request, "error", &errors.RenderError{Err: fmt.Errorf("creating %q: %w", c.debug.Dir, err)})
		return
	}
	written, err := raster.Export(img, path)
	if err != nil {
		c.logger.Warnw("debug export failed", "session", id, "request", request, "error", &errors.RenderError{Err: err})
		return
	}
	c.logger.Debugw("debug export written", "session", id, "request", request, "path", written)
}

// ToTensor scales img to shape, when needed, and maps intensities into [0,1].
// Layout is [1, height, width, channels] with the gray value repeated per channel.
func ToTensor(img *raster.Image, shape shapemodel.InputShape) entity.Tensor {
	gray := img.Gray()
	if img.Width() != shape.Width || img.Height() != shape.Height {
		gray = toGray(resize.Resize(uint(shape.Width), uint(shape.Height), gray, resize.Bilinear))
	}

	t := entity.Tensor{
		Shape: [4]int{1, shape.Height, shape.Width, shape.Channels},
		Data:  make([]float64, 0, shape.Size()),
	}
	bounds := gray.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := float64(gray.GrayAt(x, y).Y) / _maxIntensity
			for range shape.Channels {
				t.Data = append(t.Data, v)
			}
		}
	}
	return t
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	return raster.FromImage(img).Gray()
}

// Argmax returns the index and value of the largest probability. Ties go to the lowest index.
func Argmax(probs []float64) (int, float64) {
	best := 0
	for i := 1; i < len(probs); i++ {
		if probs[i] > probs[best] {
			best = i
		}
	}
	if len(probs) == 0 {
		return 0, 0
	}
	return best, probs[best]
}
