package errors

import (
	stderr "errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
)

// InputError indicates a malformed request payload.
type InputError struct {
	Err error
}

// Error is an implementation of the error interface.
func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %v", e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// IsInput reports whether an InputError is part of the error chain.
func IsInput(e error) bool {
	var target *InputError
	return stderr.As(e, &target)
}

// RenderError indicates a failure to rasterize or export a stroke.
type RenderError struct {
	Err error
}

// Error is an implementation of the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering stroke: %v", e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsRender reports whether a RenderError is part of the error chain.
func IsRender(e error) bool {
	var target *RenderError
	return stderr.As(e, &target)
}

// InferenceError indicates that the shape model could not produce a usable prediction.
type InferenceError struct {
	Err error
}

// Error is an implementation of the error interface.
func (e *InferenceError) Error() string {
	return fmt.Sprintf("running inference: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// IsInference reports whether an InferenceError is part of the error chain.
func IsInference(e error) bool {
	var target *InferenceError
	return stderr.As(e, &target)
}

// TransportError indicates that an outbound event could not be delivered to a session.
type TransportError struct {
	UUID uuid.UUID
	Err  error
}

// Error is an implementation of the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("delivering to session %q: %v", e.UUID, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether a TransportError is part of the error chain.
func IsTransport(e error) bool {
	var target *TransportError
	return stderr.As(e, &target)
}

// StartupError indicates that a component could not be initialized. It aborts application start.
type StartupError struct {
	Component string
	Err       error
}

// Error is an implementation of the error interface.
func (e *StartupError) Error() string {
	return fmt.Sprintf("starting %s: %v", e.Component, e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// IsStartup reports whether a StartupError is part of the error chain.
func IsStartup(e error) bool {
	var target *StartupError
	return stderr.As(e, &target)
}

// TimeoutError indicates that a classification did not complete within its deadline.
type TimeoutError struct {
	After time.Duration
}

// Error is an implementation of the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("classification timed out after %s", e.After)
}

// IsTimeout reports whether a TimeoutError is part of the error chain.
func IsTimeout(e error) bool {
	var target *TimeoutError
	return stderr.As(e, &target)
}

// IllegalTransitionError indicates an event that is not valid in the session's current state.
type IllegalTransitionError struct {
	State string
	Event string
}

// Error is an implementation of the error interface.
func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("event %q is not allowed in state %q", e.Event, e.State)
}

// IsIllegalTransition reports whether an IllegalTransitionError is part of the error chain.
func IsIllegalTransition(e error) bool {
	var target *IllegalTransitionError
	return stderr.As(e, &target)
}

// UnknownEventError indicates an inbound envelope naming an event the server does not handle.
type UnknownEventError struct {
	Event string
}

// Error is an implementation of the error interface.
func (e *UnknownEventError) Error() string {
	return fmt.Sprintf("unknown event %q", e.Event)
}
