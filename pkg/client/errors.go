package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassParse represents responses that could not be decoded.
	ErrorClassParse ErrorClass = "parse"

	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassRateLimit represents 429 responses. It is a client error.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport failures, timeouts and cancellation.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassNoContent represents 204 responses, which some endpoints
	// interpret as an empty result.
	ErrorClassNoContent ErrorClass = "no_content"
)

// Sentinels matched by errors.Is against an *Error of the corresponding class.
var (
	ErrParse     = errors.New("parse error")
	ErrClient    = errors.New("client error")
	ErrServer    = errors.New("server error")
	ErrNetwork   = errors.New("network error")
	ErrNoContent = errors.New("no content")

	// ErrRetryExhausted is wrapped when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// Error is returned by every Client method that talks to the API.
type Error struct {
	Class      ErrorClass
	StatusCode int
	// Code is the SpaceTraders error code, 0 when the server sent none.
	Code    int
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	switch {
	case e.Code != 0 && msg != "":
		msg = fmt.Sprintf("(code %d) %s", e.Code, msg)
	case e.Code != 0:
		msg = fmt.Sprintf("code %d", e.Code)
	case msg == "":
		msg = "unknown"
	}

	prefix := fmt.Sprintf("spacetraders %s error", e.Class)
	if e.StatusCode != 0 {
		prefix += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the class sentinels. ErrClient matches rate limit errors too.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrParse:
		return e.Class == ErrorClassParse
	case ErrClient:
		return e.Class == ErrorClassClient || e.Class == ErrorClassRateLimit
	case ErrServer:
		return e.Class == ErrorClassServer
	case ErrNetwork:
		return e.Class == ErrorClassNetwork
	case ErrNoContent:
		return e.Class == ErrorClassNoContent
	}
	return false
}

// classForStatus maps a non-2xx status to its error class.
func classForStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	default:
		return ErrorClassServer
	}
}

// shouldRetry determines if a failure should be retried. Server and network
// failures are only retried for GET, since POSTs such as navigate are not
// idempotent.
func shouldRetry(method string, errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassRateLimit:
		// the server rejected the request before acting on it
		return true
	case ErrorClassServer, ErrorClassNetwork:
		return method == http.MethodGet
	default:
		return false
	}
}

func parseError(message string, err error) *Error {
	return &Error{Class: ErrorClassParse, Message: message, Err: err}
}

func networkError(message string, err error) *Error {
	return &Error{Class: ErrorClassNetwork, Message: message, Err: err}
}
