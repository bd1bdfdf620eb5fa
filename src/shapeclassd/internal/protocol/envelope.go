// Package protocol defines the JSON event envelope exchanged over a websocket connection.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Event names.
const (
	// EventClassify is sent by the client with a stroke to classify.
	EventClassify = "classify"
	// EventMessage is sent by the server once a connection is accepted.
	EventMessage = "message"
	// EventClassification is sent by the server with the outcome of one classify request.
	EventClassification = "classification"
	// EventError is sent by the server for frames it cannot route.
	EventError = "error"
)

// ConnectedMessage is the data of the greeting sent on connect.
const ConnectedMessage = "Connected"

// Envelope is a single frame on the wire.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Decode parses a frame into an Envelope.
func Decode(frame []byte) (Envelope, error) {
	var env Envelope
	dec := json.NewDecoder(bytes.NewReader(frame))
	if err := dec.Decode(&env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if dec.More() {
		return Envelope{}, fmt.Errorf("decoding envelope: trailing data after object")
	}
	if env.Event == "" {
		return Envelope{}, fmt.Errorf("decoding envelope: missing event name")
	}
	return env, nil
}

// Encode builds a frame for the event with data marshalled as its payload.
func Encode(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encoding %q payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
