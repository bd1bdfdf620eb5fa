package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoPointsOnWireError reports that a classify request carried no points field.
	NoPointsOnWireError = New("points are required")
	// ConnectionClosedError reports a write to a connection that has already closed.
	ConnectionClosedError = New("connection closed")
)

// Kinds used to tag error metrics and logs.
const (
	KindInput             = "input"
	KindRender            = "render"
	KindInference         = "inference"
	KindTransport         = "transport"
	KindTimeout           = "timeout"
	KindIllegalTransition = "illegal_transition"
	KindInternal          = "internal"
)

// Kind returns a short, stable name for the category of e.
func Kind(e error) string {
	switch {
	case IsInput(e):
		return KindInput
	case IsRender(e):
		return KindRender
	case IsInference(e):
		return KindInference
	case IsTransport(e):
		return KindTransport
	case IsTimeout(e):
		return KindTimeout
	case IsIllegalTransition(e):
		return KindIllegalTransition
	default:
		return KindInternal
	}
}
