package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes surfaced to API clients. Handlers map these to HTTP statuses.
const (
	CodeForbidden        = "FORBIDDEN"
	CodeNotWheeler       = "NOT_WHEELER"
	CodeAlreadyVerified  = "ALREADY_VERIFIED"
	CodeDuplicatePending = "DUPLICATE_PENDING"
	CodeMissingEvidence  = "MISSING_EVIDENCE"
	CodeMissingSelfie    = "MISSING_SELFIE"
	CodeNotFound         = "NOT_FOUND"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
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

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewNotWheelerError() *AppError {
	return &AppError{
		Code:    CodeNotWheeler,
		Message: "Only Wheelers can apply for and submit verifications",
	}
}

func NewAlreadyVerifiedError() *AppError {
	return &AppError{
		Code:    CodeAlreadyVerified,
		Message: "You have already verified this business",
	}
}

func NewDuplicatePendingError() *AppError {
	return &AppError{
		Code:    CodeDuplicatePending,
		Message: "You already have a pending application for this business",
	}
}

// NewMissingEvidenceError names the feature that lacks an evidence photo.
func NewMissingEvidenceError(featureName string) *AppError {
	return &AppError{
		Code:    CodeMissingEvidence,
		Message: fmt.Sprintf("At least one evidence photo is required for feature %q", featureName),
	}
}

func NewMissingSelfieError() *AppError {
	return &AppError{
		Code:    CodeMissingSelfie,
		Message: "A selfie photo is required to submit a verification",
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
