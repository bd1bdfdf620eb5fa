package factory

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/entity"
	"github.com/whiteboard-ai/shapeclass/src/shapeclassd/internal/protocol"
	"github.com/whiteboard-ai/shapeclass/src/stroke-lib/geometry"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// Session is a factory for a Connected session with a random UUID.
func Session() *entity.Session {
	return &entity.Session{
		UUID:        UUID(),
		State:       entity.StateConnected,
		ConnectedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		RemoteAddr:  "127.0.0.1:50000",
	}
}

// Diagonal is a two point stroke from the origin to (50, 50).
func Diagonal() geometry.Stroke {
	return geometry.NewStroke(geometry.Pt(0, 0), geometry.Pt(50, 50))
}

// ClassifyPayload is a factory for the data of a classify event carrying the given points.
func ClassifyPayload(points ...geometry.Point) json.RawMessage {
	params := struct {
		Points []map[string]float64 `json:"points"`
	}{Points: make([]map[string]float64, 0, len(points))}
	for _, p := range points {
		params.Points = append(params.Points, map[string]float64{"x": p.X, "y": p.Y})
	}
	data, _ := json.Marshal(params)
	return data
}

// Envelope is a factory for an inbound event envelope.
func Envelope(event string, data json.RawMessage) protocol.Envelope {
	return protocol.Envelope{Event: event, Data: data}
}
