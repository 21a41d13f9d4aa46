// Package watch provides scoped timing around named operations. Every
// mutating backend call runs inside a watched operation so the logs always
// carry how long it took, whether it succeeded or not.
package watch

import (
	"log/slog"
	"time"
)

// Watcher creates timed operation scopes bound to one logger.
type Watcher struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Operation is one in-flight watched call. Callers defer Done immediately
// after Begin so the closing log line runs on every exit path.
type Operation struct {
	logger  *slog.Logger
	started time.Time
	done    bool
}

// Begin records the start of a named operation and logs it. It does not
// intercept errors from the wrapped call; it only observes timing.
func (w *Watcher) Begin(label, correlationID string) *Operation {
	logger := w.logger.With("operation", label, "correlation_id", correlationID)
	logger.Info("Starting operation")

	return &Operation{
		logger:  logger,
		started: time.Now(),
	}
}

// Done logs the elapsed duration for the operation. It is safe to call more
// than once; only the first call logs, so a deferred Done after an explicit
// one stays silent.
func (o *Operation) Done() {
	if o.done {
		return
	}
	o.done = true

	o.logger.Info("Operation completed", "elapsed", time.Since(o.started).Round(time.Millisecond))
}
