// Package entity contains the domain logic for the shapeclassd service.
package entity

import (
	"time"

	"github.com/gofrs/uuid"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/errors"
)

type keyType string

const (
	// SessionContextKey indicates the key to be used to identify the session UUID in the context.
	SessionContextKey keyType = "SessionUUID"
	// RequestContextKey indicates the key to be used to identify the per-session request number in the context.
	RequestContextKey keyType = "RequestID"
)

// SessionState is the lifecycle state of a client connection.
type SessionState int

const (
	// StateConnected is a live session with no classification in flight.
	StateConnected SessionState = iota
	// StateClassifying is a live session with one or more classifications in flight.
	StateClassifying
	// StateDisconnected is terminal.
	StateDisconnected
)

func (s SessionState) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateClassifying:
		return "classifying"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Session events, named as they appear in logs and IllegalTransitionError.
const (
	EventClassifyRequest = "classify_request"
	EventClassifyDone    = "classify_done"
	EventDisconnect      = "disconnect"
)

// Session entity representing a single client connection.
type Session struct {
	UUID         uuid.UUID    `json:"uuid" zap:"uuid"`
	State        SessionState `json:"state" zap:"state"`
	InFlight     int          `json:"inFlight" zap:"inFlight"`
	RequestCount int          `json:"requestCount" zap:"requestCount"`
	ConnectedAt  time.Time    `json:"connectedAt" zap:"connectedAt"`
	RemoteAddr   string       `json:"remoteAddr" zap:"remoteAddr"`
}

// BeginClassify records a new in-flight request. Valid from Connected or Classifying.
func (s *Session) BeginClassify() error {
	if s.State == StateDisconnected {
		return s.illegal(EventClassifyRequest)
	}
	s.State = StateClassifying
	s.InFlight++
	s.RequestCount++
	return nil
}

// EndClassify records the completion of one in-flight request.
func (s *Session) EndClassify() error {
	if s.State != StateClassifying || s.InFlight <= 0 {
		return s.illegal(EventClassifyDone)
	}
	s.InFlight--
	if s.InFlight == 0 {
		s.State = StateConnected
	}
	return nil
}

// Disconnect moves the session to its terminal state. In-flight requests are abandoned.
func (s *Session) Disconnect() error {
	if s.State == StateDisconnected {
		return s.illegal(EventDisconnect)
	}
	s.State = StateDisconnected
	s.InFlight = 0
	return nil
}

func (s *Session) illegal(event string) error {
	return &errors.IllegalTransitionError{State: s.State.String(), Event: event}
}
