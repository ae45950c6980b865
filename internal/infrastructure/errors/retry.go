package errors

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// RetryLogger defines the interface for logging retry operations
type RetryLogger interface {
	Printf(format string, v ...interface{})
}

// RetryConfig holds configuration for retry logic
type RetryConfig struct {
	MaxAttempts     int           // Maximum number of attempts, including the first
	InitialDelay    time.Duration // Initial delay between retries
	MaxDelay        time.Duration // Maximum delay between retries
	BackoffFactor   float64       // Exponential backoff factor
	Jitter          bool          // Whether to add jitter to delays
	RetryableErrors []ErrorCode   // Specific error codes to retry
}

var (
	retryLoggerMu sync.RWMutex
	retryLogger   RetryLogger
)

// DefaultRetryConfig retries SQLITE_BUSY/LOCKED contention only
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxAttempts:     5,
		InitialDelay:    20 * time.Millisecond,
		MaxDelay:        500 * time.Millisecond,
		BackoffFactor:   2.0,
		Jitter:          true,
		RetryableErrors: []ErrorCode{ErrCodeBusy},
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// SetRetryLogger sets the package-level logger for retry operations
func SetRetryLogger(logger RetryLogger) {
	retryLoggerMu.Lock()
	defer retryLoggerMu.Unlock()
	retryLogger = logger
}

func logRetryMessage(format string, v ...interface{}) {
	retryLoggerMu.RLock()
	logger := retryLogger
	retryLoggerMu.RUnlock()
	if logger != nil {
		logger.Printf(format, v...)
	}
}

func withRetryImpl(ctx context.Context, config *RetryConfig, operation RetryableOperation, operationName string) error {
	if config == nil {
		config = DefaultRetryConfig()
	}
	attempts := max(config.MaxAttempts, 1)
	name := operationName
	if name == "" {
		name = "store operation"
	}

	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		err := operation()
		if err == nil {
			if attempt > 0 {
				logRetryMessage("%s succeeded after %d attempts", name, attempt+1)
			}
			return nil
		}

		lastErr = err

		if !shouldRetry(err, config) {
			return err
		}

		if attempt == attempts-1 {
			break
		}

		delay := calculateDelay(attempt, config)
		logRetryMessage("%s failed (attempt %d/%d), retrying in %v: %v",
			name, attempt+1, attempts, delay, err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled during retry: %w", name, ctx.Err())
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", name, attempts, lastErr)
}

// WithRetry executes an operation with retry logic
func WithRetry(ctx context.Context, config *RetryConfig, operation RetryableOperation) error {
	return withRetryImpl(ctx, config, operation, "")
}

// WithRetryContext executes an operation with retry logic and names it in retry logs
func WithRetryContext(ctx context.Context, config *RetryConfig, operation RetryableOperation, operationName string) error {
	return withRetryImpl(ctx, config, operation, operationName)
}

// shouldRetry only retries store errors whose code is in the configured list
func shouldRetry(err error, config *RetryConfig) bool {
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		return false
	}
	if !storeErr.IsRetryable() {
		return false
	}
	return slices.Contains(config.RetryableErrors, storeErr.Code)
}

// calculateDelay calculates the delay for the next retry attempt
func calculateDelay(attempt int, config *RetryConfig) time.Duration {
	multiplier := 1.0
	for i := 0; i < attempt; i++ {
		multiplier *= config.BackoffFactor
	}

	delay := time.Duration(float64(config.InitialDelay) * multiplier)

	// Up to 25% jitter, applied before the cap
	if config.Jitter && delay > 0 {
		jitterAmount := time.Duration(float64(delay) * 0.25)
		if jitterAmount > 0 {
			delay += time.Duration(time.Now().UnixNano() % int64(jitterAmount))
		}
	}

	return min(delay, config.MaxDelay)
}
