// Package errors provides standardized boundary errors for the loan advisor
// workers, HTTP API and stores. The recommendation and advisory engines
// themselves are total and never produce these.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeInvalidProfileAnswers ErrorCode = "INVALID_PROFILE_ANSWERS"
	ErrCodeInvalidChatInput      ErrorCode = "INVALID_CHAT_INPUT"
	ErrCodeInvalidLoanParameters ErrorCode = "INVALID_LOAN_PARAMETERS"
	ErrCodeInvalidRequest        ErrorCode = "INVALID_REQUEST"

	ErrCodeSessionNotFound    ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeSessionStoreFailed ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeCatalogInvalid    ErrorCode = "CATALOG_INVALID"
	ErrCodeCatalogLoadFailed ErrorCode = "CATALOG_LOAD_FAILED"

	ErrCodeAnalyticsPublishFailed ErrorCode = "ANALYTICS_PUBLISH_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Err       error                  `json:"-"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Err
}

// WithMetadata attaches a key to the error metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		Err:       cause,
	}
}

// NewInvalidProfileAnswersError reports questionnaire input that failed boundary validation.
func NewInvalidProfileAnswersError(details string) *StandardError {
	return newError(ErrCodeInvalidProfileAnswers, "Profile answers failed validation", details, false, nil)
}

// NewInvalidChatInputError reports a chat request that failed boundary validation.
func NewInvalidChatInputError(details string) *StandardError {
	return newError(ErrCodeInvalidChatInput, "Chat input failed validation", details, false, nil)
}

// NewInvalidLoanParametersError reports calculator input outside the accepted range.
func NewInvalidLoanParametersError(details string) *StandardError {
	return newError(ErrCodeInvalidLoanParameters, "Loan parameters are invalid", details, false, nil)
}

// NewInvalidRequestError reports a request body that could not be read.
func NewInvalidRequestError(details string) *StandardError {
	return newError(ErrCodeInvalidRequest, "Request body is invalid", details, false, nil)
}

// NewSessionNotFoundError is returned by session stores for unknown ids.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return newError(ErrCodeSessionNotFound, "Conversation session not found",
		fmt.Sprintf("sessionId: %s", sessionID), false, nil)
}

// NewSessionStoreFailedError wraps a transient session storage failure.
func NewSessionStoreFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeSessionStoreFailed, "Session store operation failed",
		fmt.Sprintf("operation: %s, error: %v", operation, err), true, err)
}

// NewCatalogInvalidError reports a product record that breaks catalog invariants.
func NewCatalogInvalidError(details string) *StandardError {
	return newError(ErrCodeCatalogInvalid, "Product catalog is invalid", details, false, nil)
}

// NewCatalogLoadFailedError wraps a failure reading the catalog source.
func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Product catalog could not be loaded",
		fmt.Sprintf("source: %s, error: %v", source, err), true, err)
}

// NewAnalyticsPublishFailedError wraps a sink failure.
func NewAnalyticsPublishFailedError(sink string, err error) *StandardError {
	return newError(ErrCodeAnalyticsPublishFailed, "Analytics event could not be published",
		fmt.Sprintf("sink: %s, error: %v", sink, err), true, err)
}

// NewInternalError wraps an unexpected failure.
func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

// ==========================
// 4. Classification Helpers
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modelled in BPMN boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeInvalidProfileAnswers:  "INVALID_INPUT",
	ErrCodeInvalidChatInput:       "INVALID_INPUT",
	ErrCodeInvalidLoanParameters:  "INVALID_INPUT",
	ErrCodeInvalidRequest:         "INVALID_INPUT",
	ErrCodeSessionNotFound:        "SESSION_NOT_FOUND",
	ErrCodeSessionStoreFailed:     "SESSION_STORE_FAILED",
	ErrCodeCatalogInvalid:         "CATALOG_ERROR",
	ErrCodeCatalogLoadFailed:      "CATALOG_ERROR",
	ErrCodeAnalyticsPublishFailed: "ANALYTICS_ERROR",
}

// GetRetryCount returns how many retries a job failing with code should get.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeSessionStoreFailed, ErrCodeCatalogLoadFailed:
		return 3
	case ErrCodeAnalyticsPublishFailed:
		return 1
	default:
		return 0 // business errors: no retry
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "CATALOG"):
		return "CATALOG"
	case strings.Contains(codeStr, "ANALYTICS"):
		return "ANALYTICS"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// AsStandardError extracts a *StandardError from err's chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries a StandardError with the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}
