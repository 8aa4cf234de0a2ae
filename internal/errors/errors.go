package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an application error
type ErrorType string

const (
	ErrTypeLoad     ErrorType = "LOAD"
	ErrTypeInput    ErrorType = "INPUT"
	ErrTypeNotFound ErrorType = "NOT_FOUND"
	ErrTypeRender   ErrorType = "RENDER"
	ErrTypeStorage  ErrorType = "STORAGE"
	ErrTypeConfig   ErrorType = "CONFIG"
)

// Sentinels wrapped by AppError values. Match them with errors.Is.
var (
	ErrDatasetUnreadable = errors.New("dataset unreadable")
	ErrMalformedDataset  = errors.New("malformed dataset")
	ErrInvalidMode       = errors.New("invalid mode")
	ErrInvalidID         = errors.New("invalid id")
	ErrEmptySelection    = errors.New("no matching records")
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewLoadError creates a dataset loading error. Load errors are fatal.
func NewLoadError(message string, cause error) *AppError {
	return NewAppError(ErrTypeLoad, message, cause)
}

// NewInputError creates an operator input error
func NewInputError(message string, cause error) *AppError {
	return NewAppError(ErrTypeInput, message, cause)
}

// NewNotFoundError creates a not found error for an empty selection
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), ErrEmptySelection)
}

// NewRenderError creates a rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// TypeOf returns the type of the first AppError in the chain, or "" if none.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}

// IsRecoverable reports whether err routes to the error page instead of
// terminating the run.
func IsRecoverable(err error) bool {
	switch TypeOf(err) {
	case ErrTypeInput, ErrTypeNotFound:
		return true
	}
	return false
}
