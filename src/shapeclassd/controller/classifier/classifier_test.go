package classifier

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	shapemodel "github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/shape-model"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/shape-model/shapemodelmock"
	shapeerrors "github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/fs/fsmock"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/workerpool"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/raster"
	"go.uber.org/config"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _defaultShape = shapemodel.InputShape{Height: raster.DefaultHeight, Width: raster.DefaultWidth, Channels: 1}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func render(t *testing.T, spec raster.CanvasSpec, points ...geometry.Point) *raster.Image {
	r, err := raster.NewRenderer(spec)
	require.NoError(t, err)
	img, err := r.Render(geometry.NewStroke(points...))
	require.NoError(t, err)
	return img
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    DebugExportConfig
		wantErr string
	}{
		{
			name: "absent",
			yaml: "service: {name: shapeclassd}",
		},
		{
			name: "enabled",
			yaml: "debugExport: {enabled: true, dir: /tmp/debug}",
			want: DebugExportConfig{Enabled: true, Dir: "/tmp/debug"},
		},
		{
			name:    "enabled without dir",
			yaml:    "debugExport: {enabled: true}",
			wantErr: `missing field "debugExport.dir" in config`,
		},
		{
			name:    "wrong type",
			yaml:    "debugExport: [1, 2]",
			wantErr: `getting config field "debugExport"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewYAML(config.Source(strings.NewReader(tt.yaml)))
			require.NoError(t, err)

			c, err := New(Params{Config: cfg, Logger: zap.NewNop().Sugar()})
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.(*controller).debug)
		})
	}
}

func TestClassify(t *testing.T) {
	img := render(t, raster.DefaultCanvasSpec(), geometry.Pt(0, 0), geometry.Pt(50, 50))

	tests := []struct {
		name           string
		probs          []float64
		predictErr     error
		wantLabel      entity.Label
		wantConfidence float64
		wantErr        func(error) bool
	}{
		{
			name:           "ellipse",
			probs:          []float64{0.1, 0.6, 0.2, 0.1},
			wantLabel:      entity.LabelEllipse,
			wantConfidence: 0.6,
		},
		{
			name:           "triangle",
			probs:          []float64{0.01, 0.02, 0.03, 0.94},
			wantLabel:      entity.LabelTriangle,
			wantConfidence: 0.94,
		},
		{
			name:           "tie picks lowest index",
			probs:          []float64{0.1, 0.4, 0.4, 0.1},
			wantLabel:      entity.LabelEllipse,
			wantConfidence: 0.4,
		},
		{
			name:           "confidence clamped",
			probs:          []float64{0, 0, 1.5, 0},
			wantLabel:      entity.LabelRectangle,
			wantConfidence: 1,
		},
		{
			name:    "wrong output length",
			probs:   []float64{0.5, 0.5},
			wantErr: shapeerrors.IsInference,
		},
		{
			name:       "model error",
			predictErr: &shapeerrors.InferenceError{Err: errors.New("boom")},
			wantErr:    shapeerrors.IsInference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			model := shapemodelmock.NewMockGateway(ctrl)
			model.EXPECT().InputShape().Return(_defaultShape)
			model.EXPECT().Predict(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in entity.Tensor) ([]float64, error) {
				assert.Equal(t, [4]int{1, raster.DefaultHeight, raster.DefaultWidth, 1}, in.Shape)
				assert.Len(t, in.Data, in.Len())
				return tt.probs, tt.predictErr
			})

			c := &controller{
				model:  model,
				pool:   workerpool.NewPool(1),
				logger: zap.NewNop().Sugar(),
			}

			result, err := c.Classify(context.Background(), img)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.InDelta(t, tt.wantConfidence, result.Confidence, 1e-12)
		})
	}
}

func TestClassifyPanic(t *testing.T) {
	ctrl := gomock.NewController(t)
	model := shapemodelmock.NewMockGateway(ctrl)
	model.EXPECT().InputShape().Return(_defaultShape)
	model.EXPECT().Predict(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, entity.Tensor) ([]float64, error) {
		panic("corrupt weights")
	})

	c := &controller{
		model:  model,
		pool:   workerpool.NewPool(1),
		logger: zap.NewNop().Sugar(),
	}

	_, err := c.Classify(context.Background(), render(t, raster.DefaultCanvasSpec()))
	require.Error(t, err)
	assert.True(t, shapeerrors.IsInference(err))
	assert.ErrorContains(t, err, "corrupt weights")
}

func TestClassifyNilImage(t *testing.T) {
	c := &controller{logger: zap.NewNop().Sugar()}
	_, err := c.Classify(context.Background(), nil)
	assert.True(t, shapeerrors.IsRender(err))
}

func TestClassifyDebugExport(t *testing.T) {
	id := uuid.Must(uuid.NewV4())
	ctx := context.WithValue(context.Background(), entity.SessionContextKey, id)
	ctx = mapper.RequestIDToContext(ctx, 3)
	img := render(t, raster.DefaultCanvasSpec(), geometry.Pt(0, 0), geometry.Pt(50, 50))

	newController := func(t *testing.T, ctrl *gomock.Controller, fs *fsmock.MockShapeFS, dir string) (*controller, *observer.ObservedLogs) {
		model := shapemodelmock.NewMockGateway(ctrl)
		model.EXPECT().InputShape().Return(_defaultShape)
		model.EXPECT().Predict(gomock.Any(), gomock.Any()).Return([]float64{1, 0, 0, 0}, nil)

		core, logs := observer.New(zapcore.DebugLevel)
		return &controller{
			model:  model,
			pool:   workerpool.NewPool(1),
			fs:     fs,
			logger: zap.New(core).Sugar(),
			debug:  DebugExportConfig{Enabled: true, Dir: dir},
		}, logs
	}

	t.Run("written", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "debug")
		ctrl := gomock.NewController(t)
		fs := fsmock.NewMockShapeFS(ctrl)
		fs.EXPECT().MkdirAll(dir).Return(nil)

		c, logs := newController(t, ctrl, fs, dir)
		result, err := c.Classify(ctx, img)
		require.NoError(t, err)
		assert.Equal(t, entity.LabelOther, result.Label)

		written := logs.FilterMessage("debug export written").All()
		require.Len(t, written, 1)
		path := written[0].ContextMap()["path"]
		assert.Equal(t, filepath.Join(dir, fmt.Sprintf("%s-3.png", id)), path)

		back, err := raster.Import(path.(string))
		require.NoError(t, err)
		assert.Equal(t, img.Pix(), back.Pix())
	})

	t.Run("directory failure does not fail classification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fs := fsmock.NewMockShapeFS(ctrl)
		fs.EXPECT().MkdirAll("/readonly/debug").Return(errors.New("read-only"))

		c, logs := newController(t, ctrl, fs, "/readonly/debug")
		_, err := c.Classify(ctx, img)
		require.NoError(t, err)

		failed := logs.FilterMessage("debug export failed").All()
		require.Len(t, failed, 1)
		assert.Contains(t, fmt.Sprint(failed[0].ContextMap()["error"]), "read-only")
	})

	t.Run("write failure does not fail classification", func(t *testing.T) {
		// A regular file where the export directory should be.
		dir := filepath.Join(t.TempDir(), "occupied")
		require.NoError(t, os.WriteFile(dir, []byte("x"), 0o644))

		ctrl := gomock.NewController(t)
		fs := fsmock.NewMockShapeFS(ctrl)
		fs.EXPECT().MkdirAll(dir).Return(nil)

		c, logs := newController(t, ctrl, fs, dir)
		_, err := c.Classify(ctx, img)
		require.NoError(t, err)

		failed := logs.FilterMessage("debug export failed").All()
		require.Len(t, failed, 1)
		assert.Contains(t, fmt.Sprint(failed[0].ContextMap()["error"]), "rendering stroke")
	})

	t.Run("no session in context", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		c, logs := newController(t, ctrl, fsmock.NewMockShapeFS(ctrl), t.TempDir())
		_, err := c.Classify(context.Background(), img)
		require.NoError(t, err)
		assert.Equal(t, 1, logs.FilterMessage("skipping debug export").Len())
	})
}

func TestToTensor(t *testing.T) {
	t.Run("same shape", func(t *testing.T) {
		img := render(t, raster.DefaultCanvasSpec())
		tensor := ToTensor(img, _defaultShape)
		assert.Equal(t, [4]int{1, 70, 70, 1}, tensor.Shape)
		require.Len(t, tensor.Data, 70*70)
		for _, v := range tensor.Data {
			assert.Equal(t, 1.0, v)
		}
	})

	t.Run("values within unit range", func(t *testing.T) {
		img := render(t, raster.DefaultCanvasSpec(), geometry.Pt(0, 0), geometry.Pt(50, 50))
		tensor := ToTensor(img, _defaultShape)
		var dark int
		for _, v := range tensor.Data {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
			if v < 0.5 {
				dark++
			}
		}
		assert.Positive(t, dark)
	})

	t.Run("resampled", func(t *testing.T) {
		img := render(t, raster.DefaultCanvasSpec().WithDimensions(140, 100), geometry.Pt(0, 0), geometry.Pt(50, 50))
		tensor := ToTensor(img, _defaultShape)
		assert.Equal(t, [4]int{1, 70, 70, 1}, tensor.Shape)
		assert.Len(t, tensor.Data, tensor.Len())
	})

	t.Run("channels repeated", func(t *testing.T) {
		g := image.NewGray(image.Rect(0, 0, 2, 1))
		g.Pix[0], g.Pix[1] = 0, 255
		tensor := ToTensor(raster.FromImage(g), shapemodel.InputShape{Height: 1, Width: 2, Channels: 3})
		assert.Equal(t, []float64{0, 0, 0, 1, 1, 1}, tensor.Data)
	})
}

func TestArgmax(t *testing.T) {
	tests := []struct {
		name      string
		probs     []float64
		wantIndex int
		wantValue float64
	}{
		{"empty", nil, 0, 0},
		{"single", []float64{0.3}, 0, 0.3},
		{"last", []float64{0.1, 0.2, 0.7}, 2, 0.7},
		{"all equal", []float64{0.25, 0.25, 0.25, 0.25}, 0, 0.25},
		{"tie after first", []float64{0.1, 0.45, 0.45}, 1, 0.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, v := Argmax(tt.probs)
			assert.Equal(t, tt.wantIndex, i)
			assert.Equal(t, tt.wantValue, v)
		})
	}
}
