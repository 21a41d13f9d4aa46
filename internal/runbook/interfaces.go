package runbook

import (
	"context"
	"time"

	"github.com/awarirahul365/afs-snappy-go/internal/policy"
)

// StorageService is the storage-account capability the runbooks need. The
// Azure adapter satisfies it in production; tests use fakes.
type StorageService interface {
	// Validate confirms the subscription and storage account are usable.
	// Failures are run-fatal.
	Validate(ctx context.Context) error

	// IsSoftDeleteEnabled reports whether file share soft delete protection
	// is active on the account.
	IsSoftDeleteEnabled(ctx context.Context) (bool, error)

	// EnableSoftDelete turns on soft delete with the given retention window.
	EnableSoftDelete(ctx context.Context, days int) error

	// ListShares enumerates the account's file shares minus the exclusion
	// list, in backend listing order.
	ListShares(ctx context.Context, exclude []string) ([]string, error)

	// Share returns the per-volume capability for one file share.
	Share(name string) ShareService
}

// ShareService is the per-volume capability the runbooks drive for each
// file share.
type ShareService interface {
	Name() string
	ValidateExists(ctx context.Context) error
	WasSnapshotCreatedToday(ctx context.Context, now time.Time) (bool, error)
	ValidateSnapshotCountUnder(ctx context.Context, limit int) error
	CreateSnapshot(ctx context.Context, retentionDays int, adhoc bool) error
	ListSnapshots(ctx context.Context) ([]policy.Snapshot, error)
	DeleteSnapshot(ctx context.Context, snap policy.Snapshot) error
}

// StorageConnector acquires credentials and opens an authenticated storage
// service for the run. Errors are run-fatal.
type StorageConnector func(ctx context.Context, correlationID string) (StorageService, error)
