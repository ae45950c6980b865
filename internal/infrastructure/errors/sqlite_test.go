package errors

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func TestClassifySQLiteError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"nil error", nil, ErrCodeUnknown},
		{"non-sqlite error", errors.New("some other error"), ErrCodeUnknown},
		{"busy", sqlite3.Error{Code: sqlite3.ErrBusy}, ErrCodeBusy},
		{"locked", sqlite3.Error{Code: sqlite3.ErrLocked}, ErrCodeBusy},
		{"constraint", sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, ErrCodeConstraint},
		{"corrupt", sqlite3.Error{Code: sqlite3.ErrCorrupt}, ErrCodeCorruption},
		{"not a database", sqlite3.Error{Code: sqlite3.ErrNotADB}, ErrCodeCorruption},
		{"readonly", sqlite3.Error{Code: sqlite3.ErrReadonly}, ErrCodePermission},
		{"cant open", sqlite3.Error{Code: sqlite3.ErrCantOpen}, ErrCodeConnection},
		{"io", sqlite3.Error{Code: sqlite3.ErrIoErr}, ErrCodeConnection},
		{"full", sqlite3.Error{Code: sqlite3.ErrFull}, ErrCodeDiskSpace},
		{"schema", sqlite3.Error{Code: sqlite3.ErrSchema}, ErrCodeSchema},
		{"misuse", sqlite3.Error{Code: sqlite3.ErrMisuse}, ErrCodeInternal},
		{"wrapped busy", fmt.Errorf("exec: %w", sqlite3.Error{Code: sqlite3.ErrBusy}), ErrCodeBusy},
	}

	for _, tt := range tests {
		if got := classifySQLiteError(tt.err); got != tt.expected {
			t.Errorf("%s: classifySQLiteError() = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	var syntaxTarget map[string]any
	syntaxErr := json.Unmarshal([]byte("{not json"), &syntaxTarget)

	tests := []struct {
		name     string
		err      error
		expected ErrorCode
	}{
		{"nil", nil, ErrCodeUnknown},
		{"no rows", sql.ErrNoRows, ErrCodeNotFound},
		{"deadline", context.DeadlineExceeded, ErrCodeTimeout},
		{"canceled", context.Canceled, ErrCodeTimeout},
		{"json syntax", syntaxErr, ErrCodeSerialization},
		{"locked message", errors.New("database is locked"), ErrCodeBusy},
		{"constraint message", errors.New("UNIQUE constraint failed: kv_store.key"), ErrCodeConstraint},
		{"malformed", errors.New("database disk image is malformed"), ErrCodeCorruption},
		{"missing table", errors.New("no such table: kv_store"), ErrCodeSchema},
		{"closed", errors.New("sql: database is closed"), ErrCodeConnection},
		{"disk", errors.New("write: no space left on device"), ErrCodeDiskSpace},
		{"other", errors.New("boom"), ErrCodeUnknown},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, ErrCodeBusy},
	}

	for _, tt := range tests {
		if got := ClassifyError(tt.err); got != tt.expected {
			t.Errorf("%s: ClassifyError() = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestWrapStoreError(t *testing.T) {
	t.Parallel()

	if WrapStoreError("op", nil) != nil {
		t.Error("wrapping nil should return nil")
	}

	err := WrapStoreErrorWithContext("store_set", sqlite3.Error{Code: sqlite3.ErrBusy}, map[string]string{"key": "settings"})
	if !IsBusy(err) || !IsRetryable(err) {
		t.Errorf("expected retryable busy error, got %v", err)
	}

	var storeErr *StoreError
	if !errors.As(err, &storeErr) || storeErr.Context["key"] != "settings" {
		t.Errorf("expected context key=settings, got %v", err)
	}

	// Already classified errors pass through untouched
	notFound := HandleNotFound("store_get", "key", "x")
	if WrapStoreError("outer", notFound) != notFound {
		t.Error("expected store error to pass through")
	}
}
