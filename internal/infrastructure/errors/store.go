package errors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
)

// ClassifyError maps a raw persistence error onto an ErrorCode
func ClassifyError(err error) ErrorCode {
	if err == nil {
		return ErrCodeUnknown
	}

	// Driver errors carry exact result codes
	if code := classifySQLiteError(err); code != ErrCodeUnknown {
		return code
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCodeNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return ErrCodeTimeout
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return ErrCodeSerialization
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "database is locked"), strings.Contains(errStr, "database table is locked"):
		return ErrCodeBusy
	case strings.Contains(errStr, "constraint"):
		return ErrCodeConstraint
	case strings.Contains(errStr, "database disk image is malformed"):
		return ErrCodeCorruption
	case strings.Contains(errStr, "no such table"), strings.Contains(errStr, "no such column"):
		return ErrCodeSchema
	case strings.Contains(errStr, "permission denied"), strings.Contains(errStr, "access denied"):
		return ErrCodePermission
	case strings.Contains(errStr, "disk full"), strings.Contains(errStr, "no space left"):
		return ErrCodeDiskSpace
	case strings.Contains(errStr, "database is closed"), strings.Contains(errStr, "unable to open"):
		return ErrCodeConnection
	case strings.Contains(errStr, "timeout"):
		return ErrCodeTimeout
	default:
		return ErrCodeUnknown
	}
}

// WrapStoreError wraps a persistence error with its classification
func WrapStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return NewStoreError(op, err, ClassifyError(err))
}

// WrapStoreErrorWithContext wraps a persistence error and attaches context
func WrapStoreErrorWithContext(op string, err error, contextMap map[string]string) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return NewStoreErrorWithContext(op, err, ClassifyError(err), contextMap)
}

// HandleNotFound creates a standardized not found error
func HandleNotFound(op string, resource string, identifier string) error {
	contextMap := map[string]string{
		"resource":   resource,
		"identifier": identifier,
	}
	return NewStoreErrorWithContext(op, sql.ErrNoRows, ErrCodeNotFound, contextMap)
}

// ErrNoData is the underlying error of every EmptyData failure
var ErrNoData = errors.New("no data to export")

// HandleEmptyData creates the error returned when an export or report has no rows
func HandleEmptyData(op string, kind string) error {
	return NewStoreErrorWithContext(op, ErrNoData, ErrCodeEmptyData, map[string]string{"kind": kind})
}

// HandleValidationError creates a standardized validation error
func HandleValidationError(op string, field string, value string, reason string) error {
	contextMap := map[string]string{
		"field":  field,
		"value":  value,
		"reason": reason,
	}
	return NewStoreErrorWithContext(op, errors.New("validation failed"), ErrCodeValidation, contextMap)
}

// HandleSerializationError creates an error for a value that could not be encoded or decoded
func HandleSerializationError(op string, key string, err error) error {
	return NewStoreErrorWithContext(op, err, ErrCodeSerialization, map[string]string{"key": key})
}

// HandleConnectionError creates a standardized connection error
func HandleConnectionError(op string, details string) error {
	return NewStoreErrorWithContext(op, errors.New("connection error"), ErrCodeConnection,
		map[string]string{"details": details})
}
