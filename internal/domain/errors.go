package domain

import "errors"

// RetriableError defines an interface for errors that can be retried
type RetriableError interface {
	error
	IsRetriable() bool
}

// IsRetriable checks if an error is retriable
func IsRetriable(err error) bool {
	var re RetriableError
	if errors.As(err, &re) {
		return re.IsRetriable()
	}
	return false
}

// NetworkError represents a network-related error that may be retriable
type NetworkError struct {
	Op        string // Operation that failed (e.g., "connect", "read", "write")
	Err       error  // Underlying error
	Retriable bool   // Whether this error is retriable
}

func (e *NetworkError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *NetworkError) IsRetriable() bool {
	return e.Retriable
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a new retriable network error
func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: true}
}

// NewFatalNetworkError creates a non-retriable network error
func NewFatalNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err, Retriable: false}
}

// MalformedMessageError is raised when an inbound feed message cannot be
// decoded. It is never fatal: the message is dropped and prior state is
// left untouched.
type MalformedMessageError struct {
	Kind string // Message type tag, "" when the envelope itself was unreadable
	Err  error
}

func (e *MalformedMessageError) Error() string {
	if e.Kind == "" {
		return "malformed message: " + e.Err.Error()
	}
	return "malformed " + e.Kind + " message: " + e.Err.Error()
}

func (e *MalformedMessageError) IsRetriable() bool {
	return false
}

func (e *MalformedMessageError) Unwrap() error {
	return e.Err
}

var (
	// ErrConnectionFailed is returned when websocket connection fails. It's usually retriable.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrUnknownMessage is returned for an inbound message whose type tag is not recognized
	ErrUnknownMessage = errors.New("unknown message type")

	// ErrNotSeeded is returned when live ingestion starts before a historical seed
	ErrNotSeeded = errors.New("aggregator not seeded")

	// ErrInvalidRange is returned when a raw date range cannot be resolved
	ErrInvalidRange = errors.New("invalid time range")

	// ErrConfigNotFound is returned when configuration file is missing
	ErrConfigNotFound = errors.New("configuration not found")
)
