// Package errors provides standardized error handling for the assistant, cart and BPMN workflow integration.
package errors

import (
	"errors"
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
	ErrCodeCatalogUnavailable  ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCatalogTimeout      ErrorCode = "CATALOG_TIMEOUT"
	ErrCodeCatalogDecodeFailed ErrorCode = "CATALOG_DECODE_FAILED"
	ErrCodeProductNotFound     ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidMessage      ErrorCode = "INVALID_MESSAGE"
	ErrCodeInputValidation     ErrorCode = "INPUT_VALIDATION_FAILED"
	ErrCodeCartStoreFailed     ErrorCode = "CART_STORE_FAILED"
	ErrCodeCartItemNotFound    ErrorCode = "CART_ITEM_NOT_FOUND"
	ErrCodeEmptyCart           ErrorCode = "EMPTY_CART"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"

	ErrCodeWorkflowEngineUnavailable ErrorCode = "WORKFLOW_ENGINE_UNAVAILABLE"
	ErrCodeWorkflowEngineTimeout     ErrorCode = "WORKFLOW_ENGINE_TIMEOUT"
	ErrCodeWorkflowCommandRejected   ErrorCode = "WORKFLOW_COMMAND_REJECTED"
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

// As extracts a *StandardError from anywhere in err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := As(err)
	return ok && stdErr.Code == code
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

// NewCatalogUnavailableError wraps a transport failure or non-2xx catalog response.
func NewCatalogUnavailableError(operation string, err error) *StandardError {
	return newError(ErrCodeCatalogUnavailable, "Product catalog unavailable",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true)
}

func NewCatalogTimeoutError(operation string) *StandardError {
	return newError(ErrCodeCatalogTimeout, "Product catalog request timed out",
		fmt.Sprintf("operation: %s", operation), true)
}

func NewCatalogDecodeFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeCatalogDecodeFailed, "Product catalog returned an unreadable payload",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), false)
}

func NewProductNotFoundError(productID int) *StandardError {
	return newError(ErrCodeProductNotFound, "Product not found",
		fmt.Sprintf("productId: %d", productID), false)
}

func NewInvalidMessageError(details string) *StandardError {
	return newError(ErrCodeInvalidMessage, "Message must be a non-empty string", details, false)
}

func NewInputValidationError(details string) *StandardError {
	return newError(ErrCodeInputValidation, "Input validation failed", details, false)
}

func NewCartStoreFailedError(err error) *StandardError {
	return newError(ErrCodeCartStoreFailed, "Cart storage error", err.Error(), true)
}

func NewCartItemNotFoundError(cartID string, productID int) *StandardError {
	return newError(ErrCodeCartItemNotFound, "Item is not in the cart",
		fmt.Sprintf("cartId: %s, productId: %d", cartID, productID), false)
}

func NewEmptyCartError(cartID string) *StandardError {
	return newError(ErrCodeEmptyCart, "Cannot check out an empty cart",
		fmt.Sprintf("cartId: %s", cartID), false)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false)
}

func NewWorkflowEngineUnavailableError(err error) *StandardError {
	return newError(ErrCodeWorkflowEngineUnavailable, "Workflow engine unavailable", err.Error(), true)
}

func NewWorkflowEngineTimeoutError(err error) *StandardError {
	return newError(ErrCodeWorkflowEngineTimeout, "Workflow engine timeout", err.Error(), true)
}

func NewWorkflowCommandRejectedError(details string) *StandardError {
	return newError(ErrCodeWorkflowCommandRejected, "Workflow engine rejected the command", details, false)
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeCatalogUnavailable:  "CATALOG_UNAVAILABLE",
	ErrCodeCatalogTimeout:      "CATALOG_TIMEOUT",
	ErrCodeCatalogDecodeFailed: "CATALOG_DECODE_FAILED",
	ErrCodeProductNotFound:     "PRODUCT_NOT_FOUND",
	ErrCodeInvalidMessage:      "INVALID_MESSAGE",
	ErrCodeInputValidation:     "INPUT_VALIDATION_FAILED",
	ErrCodeCartStoreFailed:     "CART_STORE_FAILED",
	ErrCodeCartItemNotFound:    "CART_ITEM_NOT_FOUND",
	ErrCodeEmptyCart:           "EMPTY_CART",
	ErrCodeInternal:            "INTERNAL_ERROR",

	ErrCodeWorkflowEngineUnavailable: "WORKFLOW_ENGINE_UNAVAILABLE",
	ErrCodeWorkflowEngineTimeout:     "WORKFLOW_ENGINE_TIMEOUT",
	ErrCodeWorkflowCommandRejected:   "WORKFLOW_COMMAND_REJECTED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable,
		ErrCodeCartStoreFailed,
		ErrCodeWorkflowEngineUnavailable:
		return 3

	case ErrCodeCatalogTimeout,
		ErrCodeWorkflowEngineTimeout:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
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
	case strings.HasPrefix(codeStr, "CATALOG"), strings.HasPrefix(codeStr, "PRODUCT"):
		return "CATALOG"
	case strings.Contains(codeStr, "CART"):
		return "CART"
	case strings.HasPrefix(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
