package runbook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/awarirahul365/afs-snappy-go/internal/alerting"
	"github.com/awarirahul365/afs-snappy-go/internal/policy"
	"github.com/awarirahul365/afs-snappy-go/internal/watch"
)

const runbookTypeDeletion = "afs-snapshots-deletion"

// RunDeletionRunbook executes the retention enforcement flow: it sweeps every
// file share of the storage account, evaluates each managed snapshot against
// its retention period, and deletes the expired ones.
//
// now is the reference time for expiry; it is time.Now().UTC() in production
// and injected for deterministic testing. Per-share and per-snapshot failures
// are isolated and alerted; only account-level errors abort the run.
func RunDeletionRunbook(ctx context.Context, opts Options, connect StorageConnector,
	transport alerting.Transport, now time.Time) (*RunContext, error) {

	run := NewRunContext(opts.CorrelationID, opts.TriggeredFromVM, opts.SID)

	logger := SetupLogger(opts.LogLevel, opts.StorageAccount).With(
		"runbook", runbookTypeDeletion,
		"correlation_id", run.CorrelationID,
	)

	if opts.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	logger.Info("Starting snapshot listing and deletion job", "script_version", ScriptVersion)

	cid := DeriveCustomerID(opts.ResourceGroup)
	logger.Info("Customer ID resolved", "cid", cid)

	alerts := alerting.NewDispatcher(transport, logger, alerting.RunInfo{
		AccountID:      opts.SubscriptionID,
		CustomerID:     cid,
		Hostname:       alertHostname(run.TriggeredFromVM, opts.StorageAccount),
		ScriptVersion:  ScriptVersion,
		CorrelationID:  run.CorrelationID,
		SID:            run.SID,
		StorageAccount: opts.StorageAccount,
	})

	watcher := watch.New(logger)

	if err := runDeletion(ctx, run, opts, connect, alerts, watcher, logger, now); err != nil {
		message := fmt.Sprintf("An error occurred while executing the AFS snapshot deletion runbook: %v - correlation_id=%s",
			err, run.CorrelationID)
		alerts.Send(ctx, alerting.Event{Type: alerting.AlertFail, StartTime: run.StartTime, Message: message})
		logger.Error("Snapshot deletion job failed", "error", err)
		return run, err
	}

	return run, nil
}

func runDeletion(ctx context.Context, run *RunContext, opts Options, connect StorageConnector,
	alerts *alerting.Dispatcher, watcher *watch.Watcher, logger *slog.Logger, now time.Time) error {

	logger.Info("Fetching managed identity token")
	storage, err := connect(ctx, run.CorrelationID)
	if err != nil {
		return fmt.Errorf("acquiring storage access: %w", err)
	}

	logger.Info("Validating storage dependencies",
		"subscription_id", opts.SubscriptionID,
		"storage_account", opts.StorageAccount)
	if err := storage.Validate(ctx); err != nil {
		return err
	}

	logger.Info("Fetching AFS volumes in storage account")
	shares, err := storage.ListShares(ctx, opts.ExcludeShares)
	if err != nil {
		return err
	}

	if len(shares) == 0 {
		logger.Info("No AFS volumes found in storage account. Exiting")
		return nil
	}

	logger.Info("AFS volume discovery completed", "volume_count", len(shares))

	for i, name := range shares {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		shareLogger := logger.With(
			"share", name,
			"progress", fmt.Sprintf("%d/%d", i+1, len(shares)),
		)

		if err := deleteExpiredSnapshots(ctx, run, storage.Share(name), now, alerts, watcher, shareLogger); err != nil {
			message := fmt.Sprintf("Skipping '%s' due to: %v - correlation_id=%s",
				name, err, run.CorrelationID)
			alerts.Send(ctx, alerting.Event{Type: alerting.AlertFail, StartTime: run.StartTime, Message: message})
			shareLogger.Warn("Snapshot deletion skipped for volume", "error", err)
			continue
		}

		alerts.Send(ctx, alerting.Event{Type: alerting.AlertSuccess, StartTime: run.StartTime, VolumeName: name})
	}

	logger.Info("Snapshot listing and deletion job completed", "snapshots_deleted", run.SnapshotsDeleted)
	return nil
}

// deleteExpiredSnapshots runs the per-volume deletion procedure. A snapshot
// that fails to delete is alerted and skipped; it never stops processing of
// the remaining snapshots in the share.
func deleteExpiredSnapshots(ctx context.Context, run *RunContext, share ShareService, now time.Time,
	alerts *alerting.Dispatcher, watcher *watch.Watcher, logger *slog.Logger) error {

	logger.Info("Validating AFS volume exists")
	if err := share.ValidateExists(ctx); err != nil {
		return err
	}

	logger.Info("Fetching snapshots list")
	snapshots, err := share.ListSnapshots(ctx)
	if err != nil {
		return err
	}

	if len(snapshots) == 0 {
		logger.Info("There are no snapshots in this AFS volume")
		return nil
	}

	logger.Info("Iterating over snapshots to check for expired ones", "snapshot_count", len(snapshots))

	deletedInShare := 0

	for _, snap := range snapshots {
		if !policy.DeletionEligible(snap) {
			logger.Debug("Snapshot carries no retention policy. Ignoring", "snapshot", snap.Name)
			continue
		}

		if !policy.HasExpired(now, snap) {
			logger.Debug("Snapshot is within its retention period", "snapshot", snap.Name)
			continue
		}

		logger.Info("Deleting expired snapshot", "snapshot", snap.Name, "created_at", snap.CreatedAt)

		if err := deleteSnapshot(ctx, share, snap, run.CorrelationID, watcher); err != nil {
			message := fmt.Sprintf("Skipping: %s, unable to delete the snapshot due to: %v - correlation_id=%s",
				snap.Name, err, run.CorrelationID)
			alerts.Send(ctx, alerting.Event{Type: alerting.AlertFail, StartTime: run.StartTime, Message: message})
			logger.Warn("Snapshot deletion failed", "snapshot", snap.Name, "error", err)
			continue
		}

		run.SnapshotsDeleted++
		deletedInShare++
	}

	logger.Info("Volume snapshot sweep completed", "snapshots_deleted", deletedInShare)
	return nil
}

// deleteSnapshot wraps the single mutating call in a watched operation so
// the deferred timing log fires on failure paths too.
func deleteSnapshot(ctx context.Context, share ShareService, snap policy.Snapshot,
	correlationID string, watcher *watch.Watcher) error {

	op := watcher.Begin(fmt.Sprintf("Delete snapshot: %s", snap.Name), correlationID)
	defer op.Done()

	return share.DeleteSnapshot(ctx, snap)
}
