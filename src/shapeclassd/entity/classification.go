package entity

import (
	"fmt"

	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
)

// Label is a shape class. Its numeric value is the index of the class in the model output.
type Label int

// Supported labels, in model output order.
const (
	LabelOther Label = iota
	LabelEllipse
	LabelRectangle
	LabelTriangle
)

var _labelNames = [...]string{
	LabelOther:     "other",
	LabelEllipse:   "ellipse",
	LabelRectangle: "rectangle",
	LabelTriangle:  "triangle",
}

// Labels returns every label in model output order.
func Labels() []Label {
	return []Label{LabelOther, LabelEllipse, LabelRectangle, LabelTriangle}
}

// LabelNames returns the wire names of every label in model output order.
func LabelNames() []string {
	return _labelNames[:]
}

// LabelFromIndex maps a model output index to its Label.
func LabelFromIndex(i int) (Label, error) {
	if i < 0 || i >= len(_labelNames) {
		return 0, fmt.Errorf("class index %d out of range", i)
	}
	return Label(i), nil
}

// String returns the wire name of the label.
func (l Label) String() string {
	if l < 0 || int(l) >= len(_labelNames) {
		return "unknown"
	}
	return _labelNames[l]
}

// Result is the outcome of a successful classification.
type Result struct {
	Label      Label   `json:"label" zap:"label"`
	Confidence float64 `json:"confidence" zap:"confidence"`
}

// CanvasOverride carries per-request canvas dimensions.
type CanvasOverride struct {
	Width  int
	Height int
}

// ClassifyRequest is a decoded classify payload.
type ClassifyRequest struct {
	Stroke geometry.Stroke
	Canvas *CanvasOverride
}

// Tensor is a dense row-major input for the shape model with shape [batch, height, width, channels].
type Tensor struct {
	Shape [4]int
	Data  []float64
}

// Len returns the number of elements implied by the shape.
func (t Tensor) Len() int {
	return t.Shape[0] * t.Shape[1] * t.Shape[2] * t.Shape[3]
}
