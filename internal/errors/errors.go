package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// Error codes carried in the error_code member of every problem response.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeMissingFile         = "MISSING_FILE"
	CodeNotFound            = "NOT_FOUND"
	CodeFileTooLarge        = "FILE_TOO_LARGE"
	CodeUnsupportedFile     = "UNSUPPORTED_FILE"
	CodeEmptyFile           = "EMPTY_FILE"
	CodeInvalidColumnChoice = "INVALID_COLUMN_CHOICE"
	CodeMissingCoordinates  = "MISSING_COORDINATES"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
)

// problemTypes maps an error code to its RFC 7807 type URI.
var problemTypes = map[string]string{
	CodeInvalidRequest:      TypeValidation,
	CodeValidationFailed:    TypeValidation,
	CodeMissingFile:         TypeMissingFile,
	CodeNotFound:            TypeNotFound,
	CodeFileTooLarge:        TypePayloadTooLarge,
	CodeUnsupportedFile:     TypeUnsupportedFile,
	CodeEmptyFile:           TypeEmptyFile,
	CodeInvalidColumnChoice: TypeInvalidColumnChoice,
	CodeMissingCoordinates:  TypeMissingCoordinates,
	CodeServiceUnavailable:  TypeServiceDown,
}

// APIError is an error with a fixed HTTP status and error code.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

// Render implements render.Renderer
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ProblemType returns the RFC 7807 type URI for the error code.
func (e *APIError) ProblemType() string {
	if t, ok := problemTypes[e.ErrorCode]; ok {
		return t
	}
	return TypeInternal
}

// WithMessage returns a copy of e with message replaced.
func (e *APIError) WithMessage(message string) *APIError {
	c := *e
	c.Message = message
	return &c
}

// WithDetails returns a copy of e carrying details.
func (e *APIError) WithDetails(details interface{}) *APIError {
	c := *e
	c.Details = details
	return &c
}

// New creates a new APIError
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return New(statusCode, errorCode, message).WithDetails(details)
}

var (
	ErrInvalidRequest   = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrValidationFailed = New(http.StatusBadRequest, CodeValidationFailed, "Request validation failed")
	ErrMissingFile      = New(http.StatusBadRequest, CodeMissingFile, "No file was uploaded")

	ErrNotFound = New(http.StatusNotFound, CodeNotFound, "Resource not found")

	ErrFileTooLarge    = New(http.StatusRequestEntityTooLarge, CodeFileTooLarge, "Uploaded file exceeds the size limit")
	ErrUnsupportedFile = New(http.StatusUnsupportedMediaType, CodeUnsupportedFile, "File could not be read as a score export")

	ErrEmptyFile           = New(http.StatusUnprocessableEntity, CodeEmptyFile, "The file contains no rows")
	ErrInvalidColumnChoice = New(http.StatusUnprocessableEntity, CodeInvalidColumnChoice, "Column index is out of range")
	ErrMissingCoordinates  = New(http.StatusUnprocessableEntity, CodeMissingCoordinates, "X and Y columns are required for target data")

	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeServiceUnavailable, "Service temporarily unavailable")
)

// ValidationError describes one rejected request field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors is the details payload of a failed struct validation.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// InvalidRequestWithError wraps a request that could not be decoded at all.
func InvalidRequestWithError(err error) *APIError {
	return ErrInvalidRequest.WithDetails(err.Error())
}

// ErrValidation rejects a single field.
func ErrValidation(field, message string) *APIError {
	return ErrValidationFailed.WithDetails(ValidationError{Field: field, Message: message})
}

// NewValidationErrors rejects several fields at once.
func NewValidationErrors(errs []ValidationError) *APIError {
	return ErrValidationFailed.WithDetails(ValidationErrors{Errors: errs})
}

// appErrorCodes maps AppError types onto their API errors.
var appErrorCodes = map[ErrorType]*APIError{
	ErrTypeEmptyFile:           ErrEmptyFile,
	ErrTypeInvalidColumnChoice: ErrInvalidColumnChoice,
	ErrTypeMissingCoordinates:  ErrMissingCoordinates,
	ErrTypeUnsupportedFile:     ErrUnsupportedFile,
	ErrTypeValidation:          ErrValidationFailed,
	ErrTypeNotFound:            ErrNotFound,
}

// FromAppError maps a scoring AppError onto its API representation. Errors
// that are not AppErrors, or carry no HTTP meaning, are returned as nil.
func FromAppError(err error) *APIError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return nil
	}
	base, ok := appErrorCodes[appErr.Type]
	if !ok {
		return nil
	}

	mapped := base.WithMessage(appErr.Message)
	if len(appErr.Context) > 0 {
		mapped.Details = appErr.Context
	}
	return mapped
}
