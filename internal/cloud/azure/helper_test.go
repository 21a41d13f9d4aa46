package azure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/awarirahul365/afs-snappy-go/internal/cloud"
)

func testRetryConfig() cloud.RetryConfig {
	return cloud.RetryConfig{
		MaxRetries:       2,
		BaseDelay:        2 * time.Millisecond,
		MaxDelay:         10 * time.Millisecond,
		OperationTimeout: time.Second,
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "Rate Limited", err: &azcore.ResponseError{StatusCode: http.StatusTooManyRequests}, want: true},
		{name: "Service Unavailable", err: &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}, want: true},
		{name: "Not Found", err: &azcore.ResponseError{StatusCode: http.StatusNotFound}, want: false},
		{name: "Bad Request", err: &azcore.ResponseError{StatusCode: http.StatusBadRequest}, want: false},
		{name: "Plain Network Error", err: errors.New("connection reset"), want: true},
		{name: "Share Not Found Sentinel", err: fmt.Errorf("get: %w", ErrShareNotFound), want: false},
		{name: "Limit Sentinel", err: fmt.Errorf("check: %w", ErrSnapshotLimitExceeded), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRetryable(tt.err); got != tt.want {
				t.Errorf("isRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExecuteActionRetriesTransientErrors(t *testing.T) {
	attempts := 0
	operation := func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return &azcore.ResponseError{StatusCode: http.StatusServiceUnavailable}
		}
		return nil
	}

	err := ExecuteAction(context.Background(), testRetryConfig(), "TestOp", operation)
	if err != nil {
		t.Fatalf("ExecuteAction() error = %v, want nil after recovery", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestExecuteActionFailsFastOnPermanentError(t *testing.T) {
	attempts := 0
	operation := func(ctx context.Context) error {
		attempts++
		return &azcore.ResponseError{StatusCode: http.StatusForbidden}
	}

	if err := ExecuteAction(context.Background(), testRetryConfig(), "TestOp", operation); err == nil {
		t.Fatal("ExecuteAction() = nil, want error")
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (no retry on permanent errors)", attempts)
	}
}

func TestExecuteActionGivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	operation := func(ctx context.Context) error {
		attempts++
		return errors.New("flaky network")
	}

	if err := ExecuteAction(context.Background(), testRetryConfig(), "TestOp", operation); err == nil {
		t.Fatal("ExecuteAction() = nil, want error after exhausting retries")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3 (1 initial + 2 retries)", attempts)
	}
}
