package watch

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// recordingHandler collects log records so tests can assert on what was
// emitted without parsing formatted output. Derived loggers share the same
// record sink.
type recordingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *recordingHandler) WithGroup(string) slog.Handler { return h }

func TestOperationLogsStartAndCompletion(t *testing.T) {
	handler := &recordingHandler{}
	w := New(slog.New(handler))

	op := w.Begin("Create snapshot", "cid-123")
	op.Done()

	if got := len(handler.records); got != 2 {
		t.Fatalf("logged %d records, want 2 (start + completion)", got)
	}
	if handler.records[0].Message != "Starting operation" {
		t.Errorf("first record = %q, want start message", handler.records[0].Message)
	}
	if handler.records[1].Message != "Operation completed" {
		t.Errorf("second record = %q, want completion message", handler.records[1].Message)
	}
}

func TestOperationDoneIsIdempotent(t *testing.T) {
	handler := &recordingHandler{}
	w := New(slog.New(handler))

	// Mirrors the calling convention: explicit Done on the success path plus
	// the deferred one that covers error exits.
	func() {
		op := w.Begin("Delete snapshot", "cid-123")
		defer op.Done()
		op.Done()
	}()

	if got := len(handler.records); got != 2 {
		t.Fatalf("logged %d records, want 2; duplicate Done must not log twice", got)
	}
}

func TestOperationDoneRunsOnErrorPath(t *testing.T) {
	handler := &recordingHandler{}
	w := New(slog.New(handler))

	err := func() error {
		op := w.Begin("Enable soft delete", "cid-123")
		defer op.Done()
		return context.DeadlineExceeded // simulate the wrapped call failing
	}()

	if err == nil {
		t.Fatal("expected the wrapped error to propagate")
	}
	if got := len(handler.records); got != 2 {
		t.Fatalf("logged %d records, want 2; elapsed must be logged on failure too", got)
	}
}
