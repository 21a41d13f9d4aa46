package azure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/awarirahul365/afs-snappy-go/internal/cloud"
)

// isRetryable determines if an error is transient and warrants a retry.
// It checks the standard HTTP 429/408/5xx codes surfaced by the Azure SDK
// and assumes other unknown network errors are also retryable.
func isRetryable(err error) bool {
	// Domain sentinels are final decisions, never transport hiccups.
	if errors.Is(err, ErrShareNotFound) || errors.Is(err, ErrSnapshotLimitExceeded) {
		return false
	}

	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusTooManyRequests, // 429 - Rate Limiting
			http.StatusRequestTimeout,      // 408 - Client Timeout
			http.StatusInternalServerError, // 500 - Server Error
			http.StatusServiceUnavailable,  // 503 - Maintenance/Overload
			http.StatusGatewayTimeout:      // 504 - Upstream Timeout
			return true
		default:
			// Client errors (400, 401, 404, etc.) are not retryable as the
			// request itself is invalid.
			return false
		}
	}

	// Fallback: no specific HTTP code (DNS failure, connection reset) is
	// assumed to be a transient network issue and safe to retry.
	return true
}

// isNotFound reports whether an error is a management-plane 404.
func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// ExecuteAction wraps a function with retry logic: exponential backoff,
// jitter, and a total operation timeout.
//
// opName is used for logging and debugging purposes. operation must accept a
// context to support cancellation.
func ExecuteAction(ctx context.Context, cfg cloud.RetryConfig, opName string, operation func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, cfg.OperationTimeout)
	defer cancel()

	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return fmt.Errorf("%s timed out before attempt %d: %w", opName, attempt+1, ctx.Err())
		}

		lastErr = operation(ctx)
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr // Permanent error, fail fast.
		}

		if attempt == cfg.MaxRetries {
			break
		}

		slog.Warn("Transient error detected, scheduling retry",
			"operation", opName,
			"attempt", attempt+1,
			"max_retries", cfg.MaxRetries,
			"error", lastErr)

		// Backoff: BaseDelay * 2^attempt, plus up to 50% jitter, capped at
		// MaxDelay.
		backoff := float64(cfg.BaseDelay) * math.Pow(2, float64(attempt))
		jitter := time.Duration(rand.Int63n(int64(backoff) / 2))
		sleepDuration := min(time.Duration(backoff)+jitter, cfg.MaxDelay)

		select {
		case <-time.After(sleepDuration):
			continue
		case <-ctx.Done():
			return fmt.Errorf("%s context cancelled during backoff: %w", opName, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d retries: %w", opName, cfg.MaxRetries, lastErr)
}
