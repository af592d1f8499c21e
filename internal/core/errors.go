package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeBadRequest       = "bad_request"
	ErrCodeRoomNotFound     = "room_not_found"
	ErrCodeNotInRoom        = "not_in_room"
	ErrCodeMessageNotFound  = "message_not_found"
	ErrCodeDuplicateSession = "duplicate_session"
)

// ErrDuplicateSession is returned when a connection id is registered twice.
var ErrDuplicateSession = errors.New("duplicate session")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
