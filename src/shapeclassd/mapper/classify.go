package mapper

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
	"go.uber.org/multierr"
)

// MaxCanvasDimension bounds per-request canvas overrides.
const MaxCanvasDimension = 1024

// PayloadToClassifyRequest decodes the data of a classify event.
// Every malformed point is reported, combined into a single InputError.
func PayloadToClassifyRequest(data json.RawMessage) (entity.ClassifyRequest, error) {
	if len(data) == 0 {
		return entity.ClassifyRequest{}, &errors.InputError{Err: errors.NoPointsOnWireError}
	}

	var params protocol.ClassifyParams
	if err := json.Unmarshal(data, &params); err != nil {
		return entity.ClassifyRequest{}, &errors.InputError{Err: fmt.Errorf("decoding payload: %w", err)}
	}
	if params.Points == nil {
		return entity.ClassifyRequest{}, &errors.InputError{Err: errors.NoPointsOnWireError}
	}

	var errs error
	points := make([]geometry.Point, 0, len(params.Points))
	for i, raw := range params.Points {
		p, err := rawToPoint(raw)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("point %d: %w", i, err))
			continue
		}
		points = append(points, p)
	}

	req := entity.ClassifyRequest{Stroke: geometry.NewStroke(points...)}
	if params.Canvas != nil {
		c, err := canvasOverride(params.Canvas)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		req.Canvas = c
	}

	if errs != nil {
		return entity.ClassifyRequest{}, &errors.InputError{Err: errs}
	}
	return req, nil
}

func rawToPoint(raw json.RawMessage) (geometry.Point, error) {
	var p protocol.PointParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return geometry.Point{}, err
	}

	var errs error
	if p.X == nil {
		errs = multierr.Append(errs, fmt.Errorf("missing x"))
	} else if math.IsNaN(*p.X) || math.IsInf(*p.X, 0) {
		errs = multierr.Append(errs, fmt.Errorf("x is not finite"))
	}
	if p.Y == nil {
		errs = multierr.Append(errs, fmt.Errorf("missing y"))
	} else if math.IsNaN(*p.Y) || math.IsInf(*p.Y, 0) {
		errs = multierr.Append(errs, fmt.Errorf("y is not finite"))
	}
	if errs != nil {
		return geometry.Point{}, errs
	}
	return geometry.Pt(*p.X, *p.Y), nil
}

func canvasOverride(c *protocol.CanvasParams) (*entity.CanvasOverride, error) {
	if c.Width <= 0 || c.Height <= 0 || c.Width > MaxCanvasDimension || c.Height > MaxCanvasDimension {
		return nil, fmt.Errorf("canvas %dx%d outside 1..%d", c.Width, c.Height, MaxCanvasDimension)
	}
	return &entity.CanvasOverride{Width: c.Width, Height: c.Height}, nil
}

// ResultToPayload maps a successful classification to its wire form.
func ResultToPayload(r entity.Result) protocol.ClassificationParams {
	return protocol.ClassificationParams{
		Classification: &protocol.PredictionParams{
			Prediction: r.Label.String(),
			Confidence: r.Confidence,
		},
	}
}

// ErrorToPayload maps a failed classification to its wire form.
func ErrorToPayload(err error) protocol.ClassificationParams {
	return protocol.ClassificationParams{Error: err.Error()}
}
