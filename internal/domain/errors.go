package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Domain error types implementing HTTPError interface
type (
	// NotFoundError indicates a resource was not found
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}
)

// Error implementations
func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }

// StatusCode implementations (HTTPError interface)
func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }

// Is lets errors.Is match the typed errors against their sentinels.
func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrGuard marks a mutation refused by a precondition check. No remote call was made.
	ErrGuard = errors.New("operation blocked")

	// ErrLoad marks a failed read from the remote store. Prior local state is kept.
	ErrLoad = errors.New("load failed")

	// ErrWrite marks a rejected remote insert/update/delete. Local state is untouched.
	ErrWrite = errors.New("write failed")
)

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (folder, category, question)
	ResourceID   string // ID of the existing/conflicting resource
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return e.Message
}

// StatusCode implements the HTTPError interface
func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// GuardReason names the precondition that blocked a folder deletion.
type GuardReason string

const (
	GuardChildren   GuardReason = "children"
	GuardCategories GuardReason = "categories"
)

// GuardError is returned when a delete is refused because the folder is not empty.
type GuardError struct {
	Reason   GuardReason
	FolderID string
	Count    int
}

func (e *GuardError) Error() string {
	switch e.Reason {
	case GuardChildren:
		return "cannot delete folder with subfolders"
	case GuardCategories:
		return "cannot delete folder with categories"
	default:
		return fmt.Sprintf("cannot delete folder: %s", e.Reason)
	}
}

// StatusCode implements the HTTPError interface
func (e *GuardError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrGuard
func (e *GuardError) Is(target error) bool {
	return target == ErrGuard
}

// NewValidationError formats a ValidationError.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError builds the "<resource> <id>: not found" error used across the store.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf("%s %s: not found", resource, id)}
}
