package azure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/awarirahul365/afs-snappy-go/internal/policy"
)

// snapshotTimeFormat renders a snapshot's creation time as the x-ms-snapshot
// identifier the management API expects on get/delete calls.
const snapshotTimeFormat = "2006-01-02T15:04:05.0000000Z"

// Share exposes the per-volume operations of one file share. It shares the
// connection and retry posture of the Client that created it.
type Share struct {
	client *Client
	name   string
}

// Share returns a handle for one file share in the storage account.
func (c *Client) Share(name string) *Share {
	return &Share{client: c, name: name}
}

func (s *Share) Name() string {
	return s.name
}

// ValidateExists confirms the share is still present in the storage account.
// Returns ErrShareNotFound when it is gone.
func (s *Share) ValidateExists(ctx context.Context) error {
	c := s.client

	operation := func(innerCtx context.Context) error {
		_, err := c.shares.Get(innerCtx, c.ResourceGroup, c.StorageAccount, s.name, nil)
		if isNotFound(err) {
			return fmt.Errorf("%w: '%s'", ErrShareNotFound, s.name)
		}
		return err
	}

	return c.executeWithRetry(ctx, "ValidateFileShareExists", operation)
}

// ListSnapshots returns all snapshots of this share in listing order,
// hydrated with the retention metadata stamped at creation. Snapshots whose
// metadata cannot be parsed are returned without a retention value, which
// keeps them out of deletion's reach.
func (s *Share) ListSnapshots(ctx context.Context) ([]policy.Snapshot, error) {
	c := s.client

	var snapshots []policy.Snapshot

	operation := func(innerCtx context.Context) error {
		snapshots = snapshots[:0]

		options := &armstorage.FileSharesClientListOptions{
			Expand: to.Ptr("snapshots"),
			Filter: to.Ptr(fmt.Sprintf("startswith(name, '%s')", s.name)),
		}

		pager := c.shares.NewListPager(c.ResourceGroup, c.StorageAccount, options)
		for pager.More() {
			page, err := pager.NextPage(innerCtx)
			if err != nil {
				return err
			}

			for _, item := range page.Value {
				// The expanded listing interleaves base shares and their
				// snapshots; only snapshot entries carry a snapshot time.
				if item.Name == nil || *item.Name != s.name {
					continue
				}
				if item.Properties == nil || item.Properties.SnapshotTime == nil {
					continue
				}

				snap := policy.Snapshot{
					Name:      item.Properties.SnapshotTime.UTC().Format(snapshotTimeFormat),
					CreatedAt: item.Properties.SnapshotTime.UTC(),
				}

				meta, err := policy.ParseSnapshotMetadata(item.Properties.Metadata)
				if err != nil {
					slog.Warn("Ignoring unparseable snapshot metadata",
						"share", s.name,
						"snapshot", snap.Name,
						"error", err)
				} else {
					snap.RetentionDays = meta.RetentionDays
				}

				snapshots = append(snapshots, snap)
			}
		}

		return nil
	}

	if err := c.executeWithRetry(ctx, "ListFileShareSnapshots", operation); err != nil {
		return nil, fmt.Errorf("listing snapshots of '%s': %w", s.name, err)
	}

	return snapshots, nil
}

// WasSnapshotCreatedToday reports whether any snapshot of this share was
// taken on the same UTC calendar day as now. The creation runbook uses it to
// keep automated runs to at most one snapshot per share per day.
func (s *Share) WasSnapshotCreatedToday(ctx context.Context, now time.Time) (bool, error) {
	snapshots, err := s.ListSnapshots(ctx)
	if err != nil {
		return false, err
	}

	today := now.UTC()
	for _, snap := range snapshots {
		y1, m1, d1 := snap.CreatedAt.Date()
		y2, m2, d2 := today.Date()
		if y1 == y2 && m1 == m2 && d1 == d2 {
			return true, nil
		}
	}

	return false, nil
}

// ValidateSnapshotCountUnder enforces the per-share snapshot capacity
// ceiling. Returns ErrSnapshotLimitExceeded when the share is at or over the
// limit.
func (s *Share) ValidateSnapshotCountUnder(ctx context.Context, limit int) error {
	snapshots, err := s.ListSnapshots(ctx)
	if err != nil {
		return err
	}

	if len(snapshots) >= limit {
		return fmt.Errorf("%w: share '%s' has %d snapshots, limit is %d",
			ErrSnapshotLimitExceeded, s.name, len(snapshots), limit)
	}

	return nil
}

// CreateSnapshot takes a new snapshot of the share, stamping it with the
// retention metadata the deletion runbook reads back later.
func (s *Share) CreateSnapshot(ctx context.Context, retentionDays int, adhoc bool) error {
	c := s.client
	metadata := policy.NewSnapshotMetadata(retentionDays, adhoc)

	// Creating a share that already exists with expand=snapshots takes a
	// snapshot of it; the metadata lands on the snapshot, not the base share.
	share := armstorage.FileShare{
		FileShareProperties: &armstorage.FileShareProperties{
			Metadata: metadata.ToShareMetadata(),
		},
	}

	options := &armstorage.FileSharesClientCreateOptions{
		Expand: to.Ptr("snapshots"),
	}

	operation := func(innerCtx context.Context) error {
		_, err := c.shares.Create(innerCtx, c.ResourceGroup, c.StorageAccount, s.name, share, options)
		return err
	}

	if err := c.executeWithRetry(ctx, "CreateFileShareSnapshot", operation); err != nil {
		return fmt.Errorf("creating snapshot of '%s': %w", s.name, err)
	}

	return nil
}

// DeleteSnapshot permanently removes one snapshot of this share. The base
// share is never touched; the snapshot identifier restricts the delete.
func (s *Share) DeleteSnapshot(ctx context.Context, snap policy.Snapshot) error {
	c := s.client

	options := &armstorage.FileSharesClientDeleteOptions{
		XMSSnapshot: to.Ptr(snap.Name),
	}

	operation := func(innerCtx context.Context) error {
		_, err := c.shares.Delete(innerCtx, c.ResourceGroup, c.StorageAccount, s.name, options)
		return err
	}

	if err := c.executeWithRetry(ctx, "DeleteFileShareSnapshot", operation); err != nil {
		return fmt.Errorf("deleting snapshot '%s' of '%s': %w", snap.Name, s.name, err)
	}

	return nil
}
