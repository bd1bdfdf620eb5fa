package notifier

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/wsfx"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
	"go.uber.org/zap"
)

//go:generate mockgen -source=client_notifier.go -destination=notifiermock/client_notifier_mock.go -package=notifiermock

const _errSendToClient = "sending %q event to client: %w"

// Gateway is used to send outbound events to connected clients.
// All sends should include a context with a session UUID, which will be used to route the event to the correct connection.
type Gateway interface {
	// RegisterClient registers a new client with the gateway. Should be called each time a new connection is accepted.
	RegisterClient(ctx context.Context, id uuid.UUID, conn wsfx.Conn) error
	// DeregisterClient removes a client from the gateway. Should be called each time a connection is closed.
	DeregisterClient(ctx context.Context, id uuid.UUID) error

	Message(ctx context.Context, params protocol.MessageParams) error
	Classification(ctx context.Context, params protocol.ClassificationParams) error
}

type gateway struct {
	clients   map[uuid.UUID]wsfx.Conn
	clientsMu sync.Mutex
	logger    *zap.Logger
}

// New returns a Gateway for sending client events.
func New(logger *zap.Logger) Gateway {
	return &gateway{
		clients: make(map[uuid.UUID]wsfx.Conn),
		logger:  logger,
	}
}

func (g *gateway) RegisterClient(ctx context.Context, id uuid.UUID, conn wsfx.Conn) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	if _, ok := g.clients[id]; ok {
		return fmt.Errorf("client %q already registered", id)
	}
	g.clients[id] = conn
	return nil
}

func (g *gateway) DeregisterClient(ctx context.Context, id uuid.UUID) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	if _, ok := g.clients[id]; !ok {
		return &errors.UUIDNotFoundError{UUID: id}
	}
	delete(g.clients, id)
	return nil
}

func (g *gateway) Message(ctx context.Context, params protocol.MessageParams) error {
	return g.send(ctx, protocol.EventMessage, params)
}

func (g *gateway) Classification(ctx context.Context, params protocol.ClassificationParams) error {
	return g.send(ctx, protocol.EventClassification, params)
}

// send delivers an event to the session in ctx. Every failure is a TransportError.
func (g *gateway) send(ctx context.Context, event string, data any) error {
	id, c, err := g.getClient(ctx)
	if err != nil {
		return &errors.TransportError{UUID: id, Err: fmt.Errorf(_errSendToClient, event, err)}
	}
	if err := c.Send(ctx, event, data); err != nil {
		return &errors.TransportError{UUID: id, Err: fmt.Errorf(_errSendToClient, event, err)}
	}
	g.logger.Debug("event sent", zap.Stringer("session", id), zap.String("event", event))
	return nil
}

func (g *gateway) getClient(ctx context.Context) (uuid.UUID, wsfx.Conn, error) {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return uuid.Nil, nil, err
	}

	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	c, ok := g.clients[id]
	if !ok {
		return id, nil, &errors.UUIDNotFoundError{UUID: id}
	}
	return id, c, nil
}
