package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the gateway's failure taxonomy. Wrap with %w; classify with errors.Is.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedTask = errors.New("unsupported task")
	ErrProvider        = errors.New("provider error")
	ErrContentRejected = errors.New("content rejected by provider")
	ErrRehostFailed    = errors.New("media rehost failed")
	ErrNetwork         = errors.New("provider unreachable")
)

// ErrorKind is the caller-facing classification of a failure.
type ErrorKind string

const (
	KindInvalidInput    ErrorKind = "INVALID_INPUT"
	KindUnsupportedTask ErrorKind = "UNSUPPORTED_TASK"
	KindProvider        ErrorKind = "PROVIDER_ERROR"
	KindContentRejected ErrorKind = "CONTENT_REJECTED"
	KindRehostFailed    ErrorKind = "REHOST_FAILED"
	KindNetwork         ErrorKind = "NETWORK_ERROR"
	KindInternal        ErrorKind = "INTERNAL_ERROR"
)

// ProviderError is a non-success upstream response. It carries the upstream status and
// message verbatim.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
}

// Is lets errors.Is(err, ErrProvider) match any *ProviderError.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

// InvalidInput builds an ErrInvalidInput with a human-readable message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// UnsupportedTask builds an ErrUnsupportedTask with a human-readable message.
func UnsupportedTask(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedTask, fmt.Sprintf(format, args...))
}

// ContentRejected builds an ErrContentRejected naming the provider that declined.
func ContentRejected(provider, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrContentRejected, provider, reason)
}

// KindOf maps an error onto the taxonomy. Unknown errors are internal.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrUnsupportedTask):
		return KindUnsupportedTask
	case errors.Is(err, ErrContentRejected):
		return KindContentRejected
	case errors.Is(err, ErrRehostFailed):
		return KindRehostFailed
	case errors.Is(err, ErrProvider):
		return KindProvider
	case errors.Is(err, ErrNetwork):
		return KindNetwork
	default:
		return KindInternal
	}
}
