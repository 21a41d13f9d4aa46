package cloud

import "time"

// RetryConfig defines the parameters for the exponential backoff and retry
// mechanism around management-plane calls. It allows fine-tuning of how
// aggressive the tool should be when handling transient errors.
type RetryConfig struct {
	// MaxRetries is the maximum number of additional attempts after the
	// initial failure. With MaxRetries of 3 the operation runs at most 4
	// times (1 initial + 3 retries).
	MaxRetries int

	// BaseDelay is the initial wait time before the first retry. The wait
	// grows exponentially with each attempt (BaseDelay * 2^attempt).
	BaseDelay time.Duration

	// MaxDelay caps the sleep duration between retries even when the
	// exponential calculation exceeds it.
	MaxDelay time.Duration

	// OperationTimeout is the total time limit for the entire operation,
	// including all retries.
	OperationTimeout time.Duration
}

// DefaultRetryConfig is the retry posture used by the runbooks.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:       3,
		BaseDelay:        2 * time.Second,
		MaxDelay:         10 * time.Second,
		OperationTimeout: 60 * time.Second,
	}
}
