package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the application. Every store mutation that fails
// with one of these leaves the store unchanged.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeIntegrityViolation = "INTEGRITY_VIOLATION"
	CodeValidation         = "VALIDATION_ERROR"
	CodeEnrollment         = "ENROLLMENT_ERROR"
	CodeSync               = "SYNC_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined error constructors
func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// NewRatingOutOfRangeError reports a course rating outside 1-5.
func NewRatingOutOfRangeError(rating int) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: fmt.Sprintf("rating %d is out of range, must be between 1 and 5", rating),
	}
}

// NewIntegrityViolationError reports a cascade or nullify target that could
// not be resolved during a relationship-aware delete.
func NewIntegrityViolationError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeIntegrityViolation,
		Message: message,
		Err:     err,
	}
}

// NewEnrollmentError reports an enrollment against an unknown course.
func NewEnrollmentError(courseID string) *AppError {
	return &AppError{
		Code:    CodeEnrollment,
		Message: fmt.Sprintf("cannot enroll: course %s not found", courseID),
	}
}

// NewSyncError reports a failed reconciliation attempt; the caller may retry.
func NewSyncError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeSync,
		Message: message,
		Err:     err,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
