package shapemodel

import (
	"context"
	"fmt"
	"slices"

	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=shape_model.go -destination=shapemodelmock/shape_model_mock.go -package=shapemodelmock

const (
	_configKeyModelPath = "model.path"
	_component          = "shape model"
)

// Gateway runs the trained shape classifier. It is loaded once and shared by every session.
type Gateway interface {
	// InputShape returns the height, width and channels of one input sample.
	InputShape() InputShape
	// Predict returns one probability per label, in label index order.
	Predict(ctx context.Context, input entity.Tensor) ([]float64, error)
}

// Params define values to be used by the shape model gateway.
type Params struct {
	fx.In

	Config config.Provider
	FS     fs.ShapeFS
	Logger *zap.SugaredLogger
}

type gateway struct {
	network *Network
}

// New loads the model artifact named by configuration. Any failure is a StartupError.
func New(p Params) (Gateway, error) {
	var path string
	if err := p.Config.Get(_configKeyModelPath).Populate(&path); err != nil {
		return nil, &errors.StartupError{Component: _component, Err: fmt.Errorf("getting config field %q: %w", _configKeyModelPath, err)}
	}
	if path == "" {
		return nil, &errors.StartupError{Component: _component, Err: fmt.Errorf("missing field %q in config", _configKeyModelPath)}
	}

	data, err := p.FS.ReadFile(path)
	if err != nil {
		return nil, &errors.StartupError{Component: _component, Err: fmt.Errorf("reading artifact: %w", err)}
	}

	g, err := NewFromArtifact(data)
	if err != nil {
		return nil, &errors.StartupError{Component: _component, Err: err}
	}

	n := g.(*gateway).network
	p.Logger.Infow("shape model loaded", "path", path, "name", n.Name(), "input", fmt.Sprintf("%dx%dx%d", n.Input().Height, n.Input().Width, n.Input().Channels), "layers", len(n.layers))
	return g, nil
}

// NewFromArtifact builds a Gateway from artifact bytes. The artifact's classes must match the label enumeration in order.
func NewFromArtifact(data []byte) (Gateway, error) {
	n, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(n.Classes(), entity.LabelNames()) {
		return nil, fmt.Errorf("artifact classes %q do not match labels %q", n.Classes(), entity.LabelNames())
	}
	return &gateway{network: n}, nil
}

func (g *gateway) InputShape() InputShape {
	return g.network.Input()
}

func (g *gateway) Predict(ctx context.Context, input entity.Tensor) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	in := g.network.Input()
	want := [4]int{1, in.Height, in.Width, in.Channels}
	if input.Shape != want {
		return nil, &errors.InferenceError{Err: fmt.Errorf("input shape %v, want %v", input.Shape, want)}
	}
	if len(input.Data) != input.Len() {
		return nil, &errors.InferenceError{Err: fmt.Errorf("input has %d values for shape %v", len(input.Data), input.Shape)}
	}

	out, err := g.network.Forward(input.Data)
	if err != nil {
		return nil, &errors.InferenceError{Err: err}
	}
	return out, nil
}
