package services

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a rejected operation so the boundary layer can map it
// to the right HTTP status and the caller can show an actionable message.
type ErrorKind int

const (
	// KindNotFound means a referenced competition/entry/model/user/parameter does not exist
	KindNotFound ErrorKind = iota
	// KindInvalidArgument means the input is structurally invalid
	KindInvalidArgument
	// KindIllegalState means the operation is invalid in the current lifecycle state
	KindIllegalState
	// KindForbidden means the requester lacks the required relationship
	KindForbidden
)

// ServiceError is a recoverable-by-caller rejection, not a system fault.
// Unexpected failures (store unavailable, ...) are returned as plain errors
// and surface as a generic fault.
type ServiceError struct {
	Kind    ErrorKind
	Message string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func (e *ServiceError) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindIllegalState:
		return http.StatusConflict
	case KindForbidden:
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

func NotFound(message string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, Message: message}
}

func InvalidArgument(message string) *ServiceError {
	return &ServiceError{Kind: KindInvalidArgument, Message: message}
}

func IllegalState(message string) *ServiceError {
	return &ServiceError{Kind: KindIllegalState, Message: message}
}

func Forbidden(message string) *ServiceError {
	return &ServiceError{Kind: KindForbidden, Message: message}
}

// IsKind reports whether err is a ServiceError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var serr *ServiceError
	if errors.As(err, &serr) {
		return serr.Kind == kind
	}
	return false
}
