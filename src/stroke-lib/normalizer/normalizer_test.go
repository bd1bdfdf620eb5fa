package normalizer

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
)

const (
	_canvas  = 70
	_padding = 4.0
	_epsilon = 1e-9
)

func TestTransformDiagonal(t *testing.T) {
	s := geometry.NewStroke(geometry.Pt(0, 0), geometry.Pt(50, 50))

	a, err := Transform(s, _canvas, _canvas, _padding)
	require.NoError(t, err)

	wantScale := (float64(_canvas) - _padding) / 51
	assert.InDelta(t, wantScale, a.Scale, _epsilon)
	assert.InDelta(t, 135.0/51, a.TranslateX, _epsilon)
	assert.InDelta(t, 135.0/51, a.TranslateY, _epsilon)

	n, err := Normalize(s, _canvas, _canvas, _padding)
	require.NoError(t, err)
	require.Equal(t, 2, n.Len())
	assert.InDelta(t, 135.0/51, n.At(0).X, _epsilon)
	assert.InDelta(t, 135.0/51, n.At(0).Y, _epsilon)
	assert.InDelta(t, 3435.0/51, n.At(1).X, _epsilon)
	assert.InDelta(t, 3435.0/51, n.At(1).Y, _epsilon)
}

func TestTransformWithoutPadding(t *testing.T) {
	s := geometry.NewStroke(geometry.Pt(0, 0), geometry.Pt(50, 50))

	a, err := Transform(s, _canvas, _canvas, 0)
	require.NoError(t, err)

	assert.InDelta(t, 70.0/51, a.Scale, _epsilon)
	assert.InDelta(t, 35.0/51, a.TranslateX, _epsilon)
	assert.InDelta(t, 35.0/51, a.TranslateY, _epsilon)
}

func TestTransformTighterAxisGoverns(t *testing.T) {
	// 100 wide, 10 tall: the x axis limits the scale.
	s := geometry.NewStroke(geometry.Pt(10, 20), geometry.Pt(110, 30))

	a, err := Transform(s, 70, 40, 4)
	require.NoError(t, err)
	assert.InDelta(t, 66.0/101, a.Scale, _epsilon)

	n, err := Normalize(s, 70, 40, 4)
	require.NoError(t, err)
	b, _ := n.Bounds()
	assert.InDelta(t, 35, b.Center().X, _epsilon)
	assert.InDelta(t, 20, b.Center().Y, _epsilon)
}

func TestTransformAxisAlignedStrokes(t *testing.T) {
	tests := []struct {
		name   string
		stroke geometry.Stroke
	}{
		{
			name:   "vertical",
			stroke: geometry.NewStroke(geometry.Pt(5, 0), geometry.Pt(5, 100)),
		},
		{
			name:   "horizontal",
			stroke: geometry.NewStroke(geometry.Pt(0, 5), geometry.Pt(100, 5)),
		},
		{
			name:   "repeated point",
			stroke: geometry.NewStroke(geometry.Pt(7, 7), geometry.Pt(7, 7)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Normalize(tt.stroke, _canvas, _canvas, _padding)
			require.NoError(t, err)
			for _, p := range n.All() {
				assert.False(t, math.IsNaN(p.X) || math.IsInf(p.X, 0))
				assert.False(t, math.IsNaN(p.Y) || math.IsInf(p.Y, 0))
			}
			b, _ := n.Bounds()
			assert.InDelta(t, _canvas/2.0, b.Center().X, _epsilon)
			assert.InDelta(t, _canvas/2.0, b.Center().Y, _epsilon)
		})
	}
}

func TestDegenerate(t *testing.T) {
	for _, s := range []geometry.Stroke{{}, geometry.NewStroke(geometry.Pt(1, 1))} {
		_, err := Normalize(s, _canvas, _canvas, _padding)
		assert.ErrorIs(t, err, ErrDegenerateStroke)
	}
}

func TestInvalidCanvas(t *testing.T) {
	s := geometry.NewStroke(geometry.Pt(0, 0), geometry.Pt(1, 1))
	_, err := Transform(s, 0, 70, _padding)
	assert.Error(t, err)
}

func TestNormalizeFitsAndCenters(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 11))
	for i := 0; i < 200; i++ {
		w := 20 + r.IntN(200)
		h := 20 + r.IntN(200)
		pad := float64(r.IntN(10))

		n := 2 + r.IntN(50)
		points := make([]geometry.Point, n)
		for j := range points {
			points[j] = geometry.Pt(r.Float64()*4000-2000, r.Float64()*4000-2000)
		}

		out, err := Normalize(geometry.NewStroke(points...), w, h, pad)
		require.NoError(t, err)

		b, _ := out.Bounds()
		assert.LessOrEqual(t, b.Width(), float64(w)-pad+_epsilon)
		assert.LessOrEqual(t, b.Height(), float64(h)-pad+_epsilon)

		c := b.Center()
		dist := math.Hypot(c.X-float64(w)/2, c.Y-float64(h)/2)
		assert.Less(t, dist, 1.0)
	}
}

func TestNormalizeIsStableOnNormalizedInput(t *testing.T) {
	s := geometry.NewStroke(geometry.Pt(389, 534), geometry.Pt(700, 312), geometry.Pt(1042, 524))

	once, err := Normalize(s, _canvas, _canvas, _padding)
	require.NoError(t, err)
	twice, err := Normalize(once, _canvas, _canvas, _padding)
	require.NoError(t, err)

	b1, _ := once.Bounds()
	b2, _ := twice.Bounds()

	// The +1 extent guard shifts the scale slightly on every pass, always by less than a pixel.
	assert.InDelta(t, b1.MinX, b2.MinX, 1)
	assert.InDelta(t, b1.MinY, b2.MinY, 1)
	assert.InDelta(t, b1.MaxX, b2.MaxX, 1)
	assert.InDelta(t, b1.MaxY, b2.MaxY, 1)
	assert.InDelta(t, b1.Center().X, b2.Center().X, _epsilon)
	assert.InDelta(t, b1.Center().Y, b2.Center().Y, _epsilon)
}

func TestAffineApply(t *testing.T) {
	a := Affine{MinX: 10, MinY: 20, Scale: 2, TranslateX: 1, TranslateY: 3}
	assert.Equal(t, geometry.Pt(21, 43), a.Apply(geometry.Pt(20, 40)))
}
