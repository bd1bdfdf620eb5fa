package raster

import (
	"fmt"
	"regexp"
)

// Default canvas values match the input shape the shape classifier was trained on.
const (
	DefaultWidth           = 70
	DefaultHeight          = 70
	DefaultPadding         = 4
	DefaultBackgroundColor = "#FFFFFF"
	DefaultStrokeColor     = "#000000"
	DefaultStrokeWidth     = 2
)

var _hexColorRe = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// CanvasSpec describes the target raster a stroke is drawn onto.
type CanvasSpec struct {
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Padding         float64 `yaml:"padding"`
	BackgroundColor string  `yaml:"backgroundColor"`
	StrokeColor     string  `yaml:"strokeColor"`
	StrokeWidth     float64 `yaml:"strokeWidth"`
}

// DefaultCanvasSpec returns the process-wide default canvas.
func DefaultCanvasSpec() CanvasSpec {
	return CanvasSpec{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Padding:         DefaultPadding,
		BackgroundColor: DefaultBackgroundColor,
		StrokeColor:     DefaultStrokeColor,
		StrokeWidth:     DefaultStrokeWidth,
	}
}

// WithDimensions returns a copy of the spec with the width and height replaced.
func (c CanvasSpec) WithDimensions(width, height int) CanvasSpec {
	c.Width = width
	c.Height = height
	return c
}

// Validate reports the first problem that makes the spec unusable.
func (c CanvasSpec) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Padding < 0 || c.Padding >= float64(c.Width) || c.Padding >= float64(c.Height) {
		return fmt.Errorf("padding %g does not fit a %dx%d canvas", c.Padding, c.Width, c.Height)
	}
	if c.StrokeWidth <= 0 {
		return fmt.Errorf("stroke width must be positive, got %g", c.StrokeWidth)
	}
	if !_hexColorRe.MatchString(c.BackgroundColor) {
		return fmt.Errorf("invalid background color %q", c.BackgroundColor)
	}
	if !_hexColorRe.MatchString(c.StrokeColor) {
		return fmt.Errorf("invalid stroke color %q", c.StrokeColor)
	}
	return nil
}
