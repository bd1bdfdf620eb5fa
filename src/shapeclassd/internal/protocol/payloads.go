package protocol

import "encoding/json"

// ClassifyParams is the data of a classify event.
type ClassifyParams struct {
	Points []json.RawMessage `json:"points"`
	Canvas *CanvasParams     `json:"canvas,omitempty"`
}

// PointParams is a single point of ClassifyParams. Fields are pointers so a missing coordinate can be told apart from zero.
type PointParams struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// CanvasParams overrides the canvas dimensions for one request.
type CanvasParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MessageParams is the data of a message event.
type MessageParams struct {
	Data string `json:"data"`
}

// ClassificationParams is the data of a classification event. Exactly one field is set.
type ClassificationParams struct {
	Classification *PredictionParams `json:"classification,omitempty"`
	Error          string            `json:"error,omitempty"`
}

// PredictionParams is a successful classification.
type PredictionParams struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

// ErrorParams is the data of an error event.
type ErrorParams struct {
	Error string `json:"error"`
}
