package shapeclassdaemon

import (
	"context"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	controller "github.com/whiteboard-ai/shapeclass/src/shapeclassd/controller/shapeclass-daemon"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
)

type wsRouter struct {
	shapeclassdaemon controller.Controller
	uuid             uuid.UUID
	stats            tally.Scope
}

// HandleEvent handles routing for a single inbound event.
func (r *wsRouter) HandleEvent(ctx context.Context, env protocol.Envelope) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)

	switch env.Event {
	case protocol.EventClassify:
		r.stats.Tagged(map[string]string{"event": env.Event}).Counter("received").Inc(1)
		return r.shapeclassdaemon.Classify(ctx, env.Data)

	default:
		r.stats.Counter("unknown").Inc(1)
		return &errors.UnknownEventError{Event: env.Event}
	}
}

// UUID returns the session id of this router's connection.
func (r *wsRouter) UUID() uuid.UUID {
	return r.uuid
}
