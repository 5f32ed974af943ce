package core

// Error codes surfaced to clients in scoped error events.
const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeInvalidEvent = "invalid_event"
)

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
