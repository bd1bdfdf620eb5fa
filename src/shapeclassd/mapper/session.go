package mapper

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/model"
)

// SessionToModel maps a Session entity to its model equivalent.
func SessionToModel(s *entity.Session) *model.Session {
	return &model.Session{
		UUID:         s.UUID,
		State:        int(s.State),
		InFlight:     s.InFlight,
		RequestCount: s.RequestCount,
		ConnectedAt:  s.ConnectedAt,
		RemoteAddr:   s.RemoteAddr,
	}
}

// ModelToSession maps a model Session to its entity equivalent.
func ModelToSession(s *model.Session) (*entity.Session, error) {
	return &entity.Session{
		UUID:         s.UUID,
		State:        entity.SessionState(s.State),
		InFlight:     s.InFlight,
		RequestCount: s.RequestCount,
		ConnectedAt:  s.ConnectedAt,
		RemoteAddr:   s.RemoteAddr,
	}, nil
}

// UUIDToSession initializes a new Connected Session entity with the assigned uuid.
func UUIDToSession(u uuid.UUID, remoteAddr string, connectedAt time.Time) *entity.Session {
	return &entity.Session{
		UUID:        u,
		State:       entity.StateConnected,
		ConnectedAt: connectedAt,
		RemoteAddr:  remoteAddr,
	}
}

// ContextToSessionUUID extracts the UUID from a context
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}

// RequestIDToContext returns a copy of c carrying the per-session request number.
func RequestIDToContext(c context.Context, id int) context.Context {
	return context.WithValue(c, entity.RequestContextKey, id)
}

// ContextToRequestID extracts the per-session request number from a context, or 0 if absent.
func ContextToRequestID(c context.Context) int {
	id, _ := c.Value(entity.RequestContextKey).(int)
	return id
}
