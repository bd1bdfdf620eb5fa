// Package shapeclassdaemon adapts websocket connections to the shapeclassd session controller.
package shapeclassdaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	controller "github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/shapeclass-daemon"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/wsfx"
)

// Handler is the connection manager registered with the websocket transport.
type Handler interface {
	wsfx.ConnectionManager
}

type wsConnectionManager struct {
	ctrl  controller.Controller
	stats tally.Scope
}

// New constructs a Handler and registers it with the websocket module.
func New(ctrl controller.Controller, wsmod wsfx.WebSocketModule, stats tally.Scope) (Handler, error) {
	c := &wsConnectionManager{
		ctrl:  ctrl,
		stats: stats.SubScope("events"),
	}
	if err := wsmod.RegisterConnectionManager(c); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}
	return c, nil
}

// NewConnection will create a session for a new connection and return a router that includes its UUID.
func (c *wsConnectionManager) NewConnection(ctx context.Context, conn wsfx.Conn) (wsfx.Router, error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	return &wsRouter{
		shapeclassdaemon: c.ctrl,
		uuid:             id,
		stats:            c.stats,
	}, nil
}

// RemoveConnection cleans up a closed connection.
func (c *wsConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	c.ctrl.EndSession(ctx, id)
}
