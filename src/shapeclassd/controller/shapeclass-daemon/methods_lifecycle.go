package shapeclassdaemon

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/wsfx"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/mapper"
)

// InitSession runs when a connection is accepted, before any event is read from it.
func (c *controller) InitSession(ctx context.Context, conn wsfx.Conn) (uuid.UUID, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	s := mapper.UUIDToSession(id, conn.RemoteAddr(), c.clock.Now())
	if err := c.sessions.Set(ctx, s); err != nil {
		return uuid.Nil, err
	}
	if err := c.notifier.RegisterClient(ctx, id, conn); err != nil {
		c.sessions.Delete(ctx, id)
		return uuid.Nil, err
	}

	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	if err := c.notifier.Message(ctx, protocol.MessageParams{Data: protocol.ConnectedMessage}); err != nil {
		c.EndSession(ctx, id)
		return uuid.Nil, err
	}

	c.logger.Infow("session started", "session", id, "remote", s.RemoteAddr, "active", c.activeSessions(ctx))
	return id, nil
}

// EndSession moves the session to Disconnected and removes it. In-flight results for it are discarded.
func (c *controller) EndSession(ctx context.Context, id uuid.UUID) error {
	s, err := c.sessions.Update(ctx, id, func(s *entity.Session) error {
		return s.Disconnect()
	})
	if err != nil {
		c.logger.Warnw("ending session", "session", id, "error", err)
		return err
	}

	if err := c.notifier.DeregisterClient(ctx, id); err != nil {
		c.logger.Error(err)
	}

	if err := c.sessions.Delete(ctx, id); err != nil {
		return err
	}
	c.logger.Infow("session ended", "session", id, "requests", s.RequestCount, "elapsed", c.clock.Since(s.ConnectedAt), "active", c.activeSessions(ctx))
	return nil
}

func (c *controller) activeSessions(ctx context.Context) int {
	n, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return -1
	}
	return n
}
