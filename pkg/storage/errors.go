package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for listing operations.
var (
	// ErrNotFound indicates the requested prefix or object does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates insufficient permissions.
	ErrAccessDenied = errors.New("access denied")

	// ErrContainerNotFound indicates the container does not exist.
	ErrContainerNotFound = errors.New("container not found")

	// ErrInvalidCredentials indicates authentication failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnavailable indicates the storage service is unavailable.
	ErrUnavailable = errors.New("storage unavailable")

	// ErrThrottled indicates the request was rate limited by the service.
	ErrThrottled = errors.New("request throttled")

	// ErrPaginationLoop indicates the service handed back a continuation token
	// it had already issued.
	ErrPaginationLoop = errors.New("pagination token repeated")
)

// StorageError wraps backend-specific errors with context.
type StorageError struct {
	// Op is the operation that failed (e.g., "ListPage").
	Op string

	// Backend is the backend that produced the error.
	Backend Backend

	// Container is the container name, if applicable.
	Container string

	// Prefix is the listing prefix, if applicable.
	Prefix string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Prefix != "" {
		return fmt.Sprintf("%s %s: %s/%s: %v", e.Backend, e.Op, e.Container, e.Prefix, e.Err)
	}
	if e.Container != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Backend, e.Op, e.Container, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound returns true if err is or wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsAccessDenied returns true if err is or wraps ErrAccessDenied.
func IsAccessDenied(err error) bool { return errors.Is(err, ErrAccessDenied) }

// IsContainerNotFound returns true if err is or wraps ErrContainerNotFound.
func IsContainerNotFound(err error) bool { return errors.Is(err, ErrContainerNotFound) }

// IsInvalidCredentials returns true if err is or wraps ErrInvalidCredentials.
func IsInvalidCredentials(err error) bool { return errors.Is(err, ErrInvalidCredentials) }

// IsUnavailable returns true if err is or wraps ErrUnavailable.
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }

// IsThrottled returns true if err is or wraps ErrThrottled.
func IsThrottled(err error) bool { return errors.Is(err, ErrThrottled) }

// Tag marks err with the sentinel kind and keeps its text, so errors.Is
// matches kind while the message still carries the backend's detail.
func Tag(kind, err error) error {
	if err == nil || errors.Is(err, kind) {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, err)
}
