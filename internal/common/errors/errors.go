// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
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
	ErrCodeParseError     ErrorCode = "PARSE_ERROR"
	ErrCodeInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrCodeCatalogInvalid ErrorCode = "CATALOG_INVALID"
	ErrCodeAnswersInvalid ErrorCode = "ANSWERS_INVALID"

	ErrCodeDraftNotFound       ErrorCode = "DRAFT_NOT_FOUND"
	ErrCodeDuplicateAssessment ErrorCode = "DUPLICATE_ASSESSMENT"
	ErrCodeAssessmentNotFound  ErrorCode = "ASSESSMENT_NOT_FOUND"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeCacheFailed              ErrorCode = "CACHE_FAILED"
	ErrCodeIndexingFailed           ErrorCode = "INDEXING_FAILED"

	ErrCodeIndicatorRefreshFailed ErrorCode = "INDICATOR_REFRESH_FAILED"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

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
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
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

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewParseError creates a non-retryable job variable parsing error.
func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Failed to parse job variables", err.Error(), false)
}

// NewInvalidInputError creates a non-retryable error for a malformed job
// variable other than the answers.
func NewInvalidInputError(details string) *StandardError {
	return newError(ErrCodeInvalidInput, "Invalid job input", details, false)
}

// NewCatalogInvalidError creates a non-retryable catalog error.
func NewCatalogInvalidError(details string) *StandardError {
	return newError(ErrCodeCatalogInvalid, "Question catalog is invalid", details, false)
}

// NewAnswersInvalidError creates a non-retryable answer validation error.
func NewAnswersInvalidError(details string) *StandardError {
	return newError(ErrCodeAnswersInvalid, "Assessment answers are invalid", details, false)
}

func NewDraftNotFoundError(draftID string) *StandardError {
	return newError(ErrCodeDraftNotFound, "Assessment draft not found",
		fmt.Sprintf("draftId: %s", draftID), false)
}

// NewDuplicateAssessmentError creates a non-retryable duplicate error.
func NewDuplicateAssessmentError(draftID string) *StandardError {
	return newError(ErrCodeDuplicateAssessment, "Assessment already recorded for draft",
		fmt.Sprintf("draftId: %s", draftID), false)
}

func NewAssessmentNotFoundError(assessmentID string) *StandardError {
	return newError(ErrCodeAssessmentNotFound, "Assessment not found",
		fmt.Sprintf("assessmentId: %s", assessmentID), false)
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

// NewDatabaseInsertFailedError creates a retryable database insert error.
func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewCacheFailedError(err error) *StandardError {
	return newError(ErrCodeCacheFailed, "Cache operation failed", err.Error(), true)
}

func NewIndexingFailedError(index string, err error) *StandardError {
	return newError(ErrCodeIndexingFailed, "Search indexing failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

// NewIndicatorRefreshFailedError creates a retryable refresh error.
func NewIndicatorRefreshFailedError(country string, err error) *StandardError {
	return newError(ErrCodeIndicatorRefreshFailed, "Country indicator refresh failed",
		fmt.Sprintf("country: %s, error: %s", country, err.Error()), true)
}

// NewNotificationSendFailedError creates a retryable notification send error.
func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("type: %s, error: %s", notificationType, err.Error()), true)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeCacheFailed,
		ErrCodeIndexingFailed,
		ErrCodeIndicatorRefreshFailed,
		ErrCodeNotificationSendFailed:
		return 3

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
// BPMN error codes are the internal codes verbatim.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "PARSE") || strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	case strings.Contains(codeStr, "ASSESSMENT") || strings.Contains(codeStr, "DRAFT"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	case strings.Contains(codeStr, "INDEX"):
		return "SEARCH"
	case strings.Contains(codeStr, "INDICATOR"):
		return "INDICATORS"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
