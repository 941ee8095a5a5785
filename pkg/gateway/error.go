package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure for the caller.
type Kind string

const (
	// KindAuthRequired means no credential is present where one is required.
	KindAuthRequired Kind = "auth_required"
	// KindAuthDenied means the server rejected the presented credential.
	KindAuthDenied Kind = "auth_denied"
	// KindValidationFailed means the server rejected the payload.
	KindValidationFailed Kind = "validation_failed"
	// KindNotFound means the referenced entity is absent server-side.
	KindNotFound Kind = "not_found"
	// KindTransportFailure means the network failed or the response was
	// malformed.
	KindTransportFailure Kind = "transport_failure"
)

// Error is the typed failure surfaced by every gateway call.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
