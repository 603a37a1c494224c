package middleware

import "net/http"

// StatusError is a failure produced by the call pipeline itself rather than by
// the node. The server answers with Status instead of 500.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func (e *StatusError) HTTPStatus() int {
	return e.Status
}

var (
	ErrRateLimited = &StatusError{Status: http.StatusTooManyRequests, Message: "rate limit exceeded"}
	ErrTimeout     = &StatusError{Status: http.StatusGatewayTimeout, Message: "request timed out"}
)
