package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// UUIDNotFoundError reports a session id with no stored session.
type UUIDNotFoundError struct {
	UUID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *UUIDNotFoundError) Error() string {
	return fmt.Sprintf("UUID %q not found", n.UUID)
}

// NotFoundUUID extracts the missing session id from err.
func NotFoundUUID(err error) (uuid.UUID, bool) {
	if target := (*UUIDNotFoundError)(nil); stderr.As(err, &target) {
		return target.UUID, true
	}
	return uuid.Nil, false
}

// NoSessionFoundError indicates that the context carries no session UUID.
type NoSessionFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoSessionFoundError) Error() string {
	return "no session found in context"
}
