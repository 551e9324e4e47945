package users

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by UserError.Is
var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
)

// User error types
const (
	UserErrorTypeAlreadyExists = "already_exists"
	UserErrorTypeNotFound      = "not_found"
)

// UserError represents errors related to user operations
type UserError struct {
	Type    string
	UserID  int
	Message string
	Cause   error
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("user error [%s] for user %d: %s (caused by: %v)", e.Type, e.UserID, e.Message, e.Cause)
	}
	return fmt.Sprintf("user error [%s] for user %d: %s", e.Type, e.UserID, e.Message)
}

func (e *UserError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match a UserError against the package sentinels
func (e *UserError) Is(target error) bool {
	switch target {
	case ErrUserAlreadyExists:
		return e.Type == UserErrorTypeAlreadyExists
	case ErrUserNotFound:
		return e.Type == UserErrorTypeNotFound
	}
	return false
}

// NewUserAlreadyExistsError creates an error for when a user id is already taken
func NewUserAlreadyExistsError(userID int) *UserError {
	return &UserError{
		Type:    UserErrorTypeAlreadyExists,
		UserID:  userID,
		Message: "User with this ID already exists",
	}
}

// NewUserNotFoundError creates an error for when a user is not found
func NewUserNotFoundError(userID int) *UserError {
	return &UserError{
		Type:    UserErrorTypeNotFound,
		UserID:  userID,
		Message: "User not found",
	}
}

// ValidationError represents errors in request validation
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("validation error for field '%s' (value: %v): %s (caused by: %v)", e.Field, e.Value, e.Message, e.Cause)
	}
	return fmt.Sprintf("validation error for field '%s' (value: %v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewValidationErrorWithCause creates a new validation error with a cause
func NewValidationErrorWithCause(field string, value interface{}, message string, cause error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Cause:   cause,
	}
}
