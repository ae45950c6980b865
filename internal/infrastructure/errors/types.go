package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode classifies store and domain failures
type ErrorCode int

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNotFound
	ErrCodeEmptyData
	ErrCodeValidation
	ErrCodeSerialization
	ErrCodeConnection
	ErrCodeTimeout
	ErrCodeBusy
	ErrCodeConstraint
	ErrCodePermission
	ErrCodeDiskSpace
	ErrCodeCorruption
	ErrCodeSchema
	ErrCodeInternal
)

// String returns a string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case ErrCodeNotFound:
		return "NOT_FOUND"
	case ErrCodeEmptyData:
		return "EMPTY_DATA"
	case ErrCodeValidation:
		return "VALIDATION"
	case ErrCodeSerialization:
		return "SERIALIZATION"
	case ErrCodeConnection:
		return "CONNECTION"
	case ErrCodeTimeout:
		return "TIMEOUT"
	case ErrCodeBusy:
		return "BUSY"
	case ErrCodeConstraint:
		return "CONSTRAINT"
	case ErrCodePermission:
		return "PERMISSION"
	case ErrCodeDiskSpace:
		return "DISK_SPACE"
	case ErrCodeCorruption:
		return "CORRUPTION"
	case ErrCodeSchema:
		return "SCHEMA"
	case ErrCodeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

// IsStorageFailure reports whether the code belongs to the persistence layer
// rather than to a domain condition such as NotFound or EmptyData.
func (e ErrorCode) IsStorageFailure() bool {
	switch e {
	case ErrCodeNotFound, ErrCodeEmptyData, ErrCodeValidation:
		return false
	default:
		return true
	}
}

// StoreError carries an operation name, classification and context for a failure
type StoreError struct {
	Op        string            // operation name
	Err       error             // underlying error
	Code      ErrorCode         // error classification
	Retryable bool              // whether the store layer may retry it
	Context   map[string]string // additional context information
	Timestamp time.Time         // when the error occurred
}

func (e *StoreError) Error() string {
	if e == nil {
		return "store error"
	}

	var parts []string

	if e.Op != "" {
		parts = append(parts, fmt.Sprintf("op=%s", e.Op))
	}
	if e.Code != ErrCodeUnknown {
		parts = append(parts, fmt.Sprintf("code=%s", e.Code.String()))
	}
	if e.Retryable {
		parts = append(parts, "retryable=true")
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", k, e.Context[k]))
		}
	}

	contextStr := ""
	if len(parts) > 0 {
		contextStr = fmt.Sprintf(" [%s]", strings.Join(parts, " "))
	}

	if e.Err != nil {
		return e.Err.Error() + contextStr
	}
	return "store error" + contextStr
}

func (e *StoreError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another *StoreError by code, otherwise defers to the wrapped error
func (e *StoreError) Is(target error) bool {
	if e == nil {
		return false
	}
	if t, ok := target.(*StoreError); ok {
		return e.Code == t.Code
	}
	if e.Err != nil {
		return errors.Is(e.Err, target)
	}
	return false
}

// IsRetryable returns whether the error is retryable
func (e *StoreError) IsRetryable() bool {
	if e == nil {
		return false
	}
	return e.Retryable
}

// GetCode returns the error code as a string (for logging interface compatibility)
func (e *StoreError) GetCode() string {
	if e == nil {
		return ErrCodeUnknown.String()
	}
	return e.Code.String()
}

// GetContext returns the error context (for logging interface compatibility)
func (e *StoreError) GetContext() map[string]string {
	if e == nil || e.Context == nil {
		return make(map[string]string)
	}
	return e.Context
}

// GetTimestamp returns the error timestamp (for logging interface compatibility)
func (e *StoreError) GetTimestamp() time.Time {
	if e == nil {
		return time.Time{}
	}
	return e.Timestamp
}

// WithContext adds context information to the error by mutating the receiver.
// Not safe once the error has been shared between goroutines.
func (e *StoreError) WithContext(key, value string) *StoreError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// NewStoreError creates a new store error with the given parameters
func NewStoreError(op string, err error, code ErrorCode) *StoreError {
	return &StoreError{
		Op:        op,
		Err:       err,
		Code:      code,
		Retryable: isRetryableCode(code),
		Context:   make(map[string]string),
		Timestamp: time.Now(),
	}
}

// NewStoreErrorWithContext creates a new store error with a copy of context
func NewStoreErrorWithContext(op string, err error, code ErrorCode, context map[string]string) *StoreError {
	storeErr := NewStoreError(op, err, code)
	if context != nil {
		storeErr.Context = make(map[string]string, len(context))
		for k, v := range context {
			storeErr.Context[k] = v
		}
	}
	return storeErr
}

// isRetryableCode reports whether a failure is transient lock contention.
// Everything else is surfaced once to the caller.
func isRetryableCode(code ErrorCode) bool {
	return code == ErrCodeBusy
}

// CodeOf returns the classification of err, or ErrCodeUnknown when err is not a StoreError
func CodeOf(err error) ErrorCode {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code
	}
	return ErrCodeUnknown
}

func hasCode(err error, code ErrorCode) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a "not found" error
func IsNotFound(err error) bool { return hasCode(err, ErrCodeNotFound) }

// IsEmptyData checks if an export or report had no rows
func IsEmptyData(err error) bool { return hasCode(err, ErrCodeEmptyData) }

// IsValidation checks if the error is a validation error
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsSerialization checks if a stored value could not be encoded or decoded
func IsSerialization(err error) bool { return hasCode(err, ErrCodeSerialization) }

// IsConnection checks if the error is a "connection" error
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsBusy checks if the error is a busy/locked error
func IsBusy(err error) bool { return hasCode(err, ErrCodeBusy) }

// IsRetryable checks if the error is retryable
func IsRetryable(err error) bool {
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Retryable
	}
	return false
}

// IsStorageFailure reports whether err is a persistence failure that should be
// surfaced to the user rather than absorbed as a no-op.
func IsStorageFailure(err error) bool {
	if err == nil {
		return false
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return storeErr.Code.IsStorageFailure()
	}
	return true
}
