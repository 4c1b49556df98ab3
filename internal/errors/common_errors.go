package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing             ErrorType = "PARSING"
	ErrTypeStorage             ErrorType = "STORAGE"
	ErrTypeValidation          ErrorType = "VALIDATION"
	ErrTypeNotFound            ErrorType = "NOT_FOUND"
	ErrTypeConfig              ErrorType = "CONFIG"
	ErrTypeEmptyFile           ErrorType = "EMPTY_FILE"
	ErrTypeInvalidColumnChoice ErrorType = "INVALID_COLUMN_CHOICE"
	ErrTypeMissingCoordinates  ErrorType = "MISSING_COORDINATES"
	ErrTypeUnsupportedFile     ErrorType = "UNSUPPORTED_FILE"
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

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewEmptyFileError reports a file with no rows left after blank lines are dropped.
func NewEmptyFileError() *AppError {
	return NewAppError(ErrTypeEmptyFile, "file contains no rows", nil)
}

// NewInvalidColumnChoiceError reports a column index outside the table width.
func NewInvalidColumnChoiceError(idColumn, scoreColumn, width int, cause error) *AppError {
	return NewAppError(ErrTypeInvalidColumnChoice, "column choice is out of range", cause).
		WithContext("id_column", idColumn).
		WithContext("score_column", scoreColumn).
		WithContext("width", width)
}

// NewMissingCoordinatesError reports a table without X/Y shot positions.
func NewMissingCoordinatesError(missing ...string) *AppError {
	return NewAppError(ErrTypeMissingCoordinates, "X and Y columns are required for target data", nil).
		WithContext("missing", missing)
}

// NewUnsupportedFileError reports input the decoder cannot turn into text rows.
func NewUnsupportedFileError(message string, cause error) *AppError {
	return NewAppError(ErrTypeUnsupportedFile, message, cause)
}

// IsType reports whether err wraps an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

func IsEmptyFile(err error) bool { return IsType(err, ErrTypeEmptyFile) }

func IsInvalidColumnChoice(err error) bool { return IsType(err, ErrTypeInvalidColumnChoice) }
