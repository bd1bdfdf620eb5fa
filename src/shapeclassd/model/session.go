package model

import (
	"time"

	"github.com/gofrs/uuid"
)

// Session is the repository layer model for an individual client connection.
type Session struct {
	UUID         uuid.UUID
	State        int
	InFlight     int
	RequestCount int
	ConnectedAt  time.Time
	RemoteAddr   string
}
