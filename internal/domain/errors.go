package domain

import (
	"errors"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrRuleViolation = errors.New("business rule violated")
	ErrUnauthorized  = errors.New("unauthorized")
)

// FieldError describes a single invalid input field.
// Nested fields use dot notation, e.g. "sections.2.body".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError indicates malformed or incomplete input
type ValidationError struct {
	Message string
	Fields  []FieldError
}

// NewValidationError builds a ValidationError from field-level errors
func NewValidationError(fields []FieldError) *ValidationError {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	msg := "validation failed"
	if len(parts) > 0 {
		msg = "validation failed: " + strings.Join(parts, "; ")
	}
	return &ValidationError{Message: msg, Fields: fields}
}

func (e *ValidationError) Error() string        { return e.Message }
func (e *ValidationError) StatusCode() int      { return http.StatusBadRequest }
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// RuleViolationError indicates the input was well-formed but a business rule
// rejected it (unknown author, slug taken, post not ready, date in the past).
type RuleViolationError struct {
	Message  string
	Blockers []string
}

// NewRuleViolation creates a RuleViolationError without blockers
func NewRuleViolation(message string) *RuleViolationError {
	return &RuleViolationError{Message: message}
}

func (e *RuleViolationError) Error() string        { return e.Message }
func (e *RuleViolationError) StatusCode() int      { return http.StatusBadRequest }
func (e *RuleViolationError) Is(target error) bool { return target == ErrRuleViolation }

// ConflictError represents a resource conflict with details about the existing resource
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (post, author, cluster)
	ResourceID   string // ID or natural key of the existing resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
