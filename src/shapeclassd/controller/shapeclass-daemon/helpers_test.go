package shapeclassdaemon

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/classifier/classifiermock"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/gateway/client-notifier/notifiermock"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/clock"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/repository/session"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/raster"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	c          *controller
	sessions   session.Repository
	notifier   *notifiermock.MockGateway
	classifier *classifiermock.MockController
	stats      tally.TestScope
	logs       *observer.ObservedLogs
}

func newFixture(t *testing.T, timeout time.Duration) *fixture {
	ctrl := gomock.NewController(t)
	renderer, err := raster.NewRenderer(raster.DefaultCanvasSpec())
	require.NoError(t, err)

	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		sessions:   session.New(tally.NoopScope),
		notifier:   notifiermock.NewMockGateway(ctrl),
		classifier: classifiermock.NewMockController(ctrl),
		stats:      tally.NewTestScope("testing", nil),
		logs:       logs,
	}
	f.c = &controller{
		sessions:   f.sessions,
		notifier:   f.notifier,
		classifier: f.classifier,
		clock:      clock.New(),
		logger:     zap.New(core).Sugar(),
		stats:      f.stats,
		canvas:     raster.DefaultCanvasSpec(),
		renderer:   renderer,
		timeout:    timeout,
	}
	return f
}

// connect stores a Connected session and returns a context routed to it.
func (f *fixture) connect(t *testing.T) (context.Context, uuid.UUID) {
	id := uuid.Must(uuid.NewV4())
	require.NoError(t, f.sessions.Set(context.Background(), mapper.UUIDToSession(id, "127.0.0.1:1", time.Now())))
	return context.WithValue(context.Background(), entity.SessionContextKey, id), id
}

func (f *fixture) session(t *testing.T, id uuid.UUID) *entity.Session {
	s, err := f.sessions.Get(context.Background(), id)
	require.NoError(t, err)
	return s
}

// warnings returns the number of entries logged at Warn or above.
func (f *fixture) warnings() int {
	return f.logs.Filter(func(e observer.LoggedEntry) bool { return e.Level >= zapcore.WarnLevel }).Len()
}

func (f *fixture) counter(name string) int64 {
	c, ok := f.stats.Snapshot().Counters()["testing."+name]
	if !ok {
		return 0
	}
	return c.Value()
}
