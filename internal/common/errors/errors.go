// Package errors provides the standardized error taxonomy for the
// prediction service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Client-caused: the request failed the input contract. Always
	// recoverable by the caller correcting the input.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Client-caused: a categorical value outside the trained vocabulary.
	// Recoverable, but signals caller/model skew worth flagging.
	ErrCodeUnseenCategory ErrorCode = "UNSEEN_CATEGORY"

	// Operational: the loaded classifier and its schema metadata disagree.
	// Fatal at startup, never recoverable per-request.
	ErrCodeArtifactMismatch ErrorCode = "ARTIFACT_MISMATCH"

	// Operational: the artifact bundle could not be read or decoded.
	ErrCodeArtifactLoadFailed ErrorCode = "ARTIFACT_LOAD_FAILED"

	// Operational: internal-consistency failure during inference. Should
	// never occur when encoder and artifact are in sync.
	ErrCodeInferenceFailed ErrorCode = "INFERENCE_FAILED"
)

// FieldViolation names one offending input field and the reason it was
// rejected.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ServiceError represents a structured application error.
type ServiceError struct {
	Code      ErrorCode        `json:"code"`
	Message   string           `json:"message"`
	Details   string           `json:"details,omitempty"`
	Fields    []FieldViolation `json:"fields,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

func (e *ServiceError) Error() string {
	if len(e.Fields) > 0 {
		names := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			names[i] = f.Field
		}
		return fmt.Sprintf("ServiceError[%s]: %s (%s)", e.Code, e.Message, strings.Join(names, ", "))
	}
	return fmt.Sprintf("ServiceError[%s]: %s", e.Code, e.Message)
}

// NewValidationFailedError reports every input violation found in one pass,
// so a caller can correct a batch of issues in one round trip.
func NewValidationFailedError(fields []FieldViolation) *ServiceError {
	return &ServiceError{
		Code:      ErrCodeValidationFailed,
		Message:   "input validation failed",
		Fields:    fields,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnseenCategoryError reports a categorical value absent from the trained
// vocabulary.
func NewUnseenCategoryError(field, value string) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeUnseenCategory,
		Message: "category not present in trained vocabulary",
		Details: fmt.Sprintf("field: %s, value: %q", field, value),
		Fields: []FieldViolation{
			{Field: field, Reason: fmt.Sprintf("value %q was not seen during training", value)},
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactMismatchError reports a classifier/schema incompatibility
// inside a bundle.
func NewArtifactMismatchError(details string) *ServiceError {
	return &ServiceError{
		Code:      ErrCodeArtifactMismatch,
		Message:   "model artifact is internally inconsistent",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactLoadFailedError wraps a storage or decode failure while loading
// a bundle.
func NewArtifactLoadFailedError(err error) *ServiceError {
	return &ServiceError{
		Code:      ErrCodeArtifactLoadFailed,
		Message:   "model artifact could not be loaded",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewInferenceFailedError reports a defensive consistency check tripping
// inside the prediction engine.
func NewInferenceFailedError(details string) *ServiceError {
	return &ServiceError{
		Code:      ErrCodeInferenceFailed,
		Message:   "inference failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the HTTP status returned to callers.
// Validation and vocabulary errors surface with enough detail to
// self-correct; artifact and inference errors are operational incidents.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeUnseenCategory:
		return http.StatusUnprocessableEntity
	case ErrCodeArtifactLoadFailed, ErrCodeArtifactMismatch:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// IsClientError reports whether the code is caller-correctable.
func IsClientError(code ErrorCode) bool {
	return code == ErrCodeValidationFailed || code == ErrCodeUnseenCategory
}

// AsServiceError unwraps err into a *ServiceError if possible.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
