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

const (
	runbookTypeBackup = "afs-backup"

	// softDeleteRetentionDays is the recycle-bin window applied when the
	// runbook has to enable soft delete itself.
	softDeleteRetentionDays = 7

	// snapshotCountLimit is the per-share snapshot capacity ceiling enforced
	// before every creation.
	snapshotCountLimit = 200
)

// RunBackupRunbook executes the snapshot creation flow end to end.
//
// Sequence:
//  1. Build the run identity (correlation id, counters) and the alert
//     dispatcher bound to it.
//  2. Validate the retention input; ad-hoc runs are additionally checked
//     against the allow-list.
//  3. Acquire credentials and validate account-level preconditions. Failures
//     up to here are run-fatal: one FAIL alert, non-nil error.
//  4. Ensure soft delete protection on the file service (best-effort).
//  5. Iterate the file shares sequentially; each share's failure is isolated,
//     alerted, and skipped so one bad volume never aborts the batch.
//
// The returned RunContext carries the final counters even when the run
// failed partway.
func RunBackupRunbook(ctx context.Context, opts Options, connect StorageConnector, transport alerting.Transport) (*RunContext, error) {
	run := NewRunContext(opts.CorrelationID, opts.TriggeredFromVM, opts.SID)

	logger := SetupLogger(opts.LogLevel, opts.StorageAccount).With(
		"runbook", runbookTypeBackup,
		"correlation_id", run.CorrelationID,
	)

	if opts.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	mode := "Automated"
	if opts.Adhoc {
		mode = "Adhoc"
	}

	logger.Info("Starting snapshot creation job", "mode", mode, "script_version", ScriptVersion)

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

	if err := runBackup(ctx, run, opts, connect, alerts, watcher, logger); err != nil {
		message := fmt.Sprintf("An error occurred while executing the AFS backup runbook: %v - correlation_id=%s",
			err, run.CorrelationID)
		alerts.Send(ctx, alerting.Event{Type: alerting.AlertFail, StartTime: run.StartTime, Message: message})
		logger.Error("Snapshot creation job failed", "error", err)
		return run, err
	}

	return run, nil
}

func runBackup(ctx context.Context, run *RunContext, opts Options, connect StorageConnector,
	alerts *alerting.Dispatcher, watcher *watch.Watcher, logger *slog.Logger) error {

	retentionDays, err := policy.ValidateRetentionDays(opts.RetentionDays)
	if err != nil {
		return err
	}

	if opts.Adhoc {
		if err := policy.ValidateAdhocRetentionDays(retentionDays); err != nil {
			return err
		}
	}

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

	ensureSoftDelete(ctx, storage, run, alerts, watcher, logger)

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
		// Stop between volumes if the global timeout fired.
		if ctx.Err() != nil {
			return ctx.Err()
		}

		shareLogger := logger.With(
			"share", name,
			"progress", fmt.Sprintf("%d/%d", i+1, len(shares)),
		)

		created, err := backupShare(ctx, storage.Share(name), retentionDays, opts.Adhoc, run.CorrelationID, watcher, shareLogger)
		if err != nil {
			message := fmt.Sprintf("Skipping create snapshot in '%s' due to: %v - correlation_id=%s",
				name, err, run.CorrelationID)
			alerts.Send(ctx, alerting.Event{Type: alerting.AlertFail, StartTime: run.StartTime, Message: message})
			shareLogger.Warn("Snapshot creation skipped", "error", err)
			continue
		}

		if !created {
			continue
		}

		run.SnapshotsCreated++
		alerts.Send(ctx, alerting.Event{Type: alerting.AlertSuccess, StartTime: run.StartTime, VolumeName: name})
	}

	logger.Info("Snapshot creation job completed", "snapshots_created", run.SnapshotsCreated)
	return nil
}

// backupShare runs the per-volume creation procedure. It reports whether a
// snapshot was actually created; a share that was already backed up today is
// a clean skip, not a failure.
func backupShare(ctx context.Context, share ShareService, retentionDays int, adhoc bool,
	correlationID string, watcher *watch.Watcher, logger *slog.Logger) (bool, error) {

	logger.Info("Validating AFS volume exists")
	if err := share.ValidateExists(ctx); err != nil {
		return false, err
	}

	if adhoc {
		logger.Info("Adhoc backup requested; skipping the created-today check")
	} else {
		alreadyCreated, err := share.WasSnapshotCreatedToday(ctx, time.Now().UTC())
		if err != nil {
			return false, err
		}
		if alreadyCreated {
			logger.Info("Automated snapshot already created today. Skipping")
			return false, nil
		}
	}

	logger.Info("Validating snapshot storage limit", "limit", snapshotCountLimit)
	if err := share.ValidateSnapshotCountUnder(ctx, snapshotCountLimit); err != nil {
		return false, err
	}

	logger.Info("Creating snapshot backup", "retention_days", retentionDays)

	op := watcher.Begin(fmt.Sprintf("Create snapshot of '%s'", share.Name()), correlationID)
	defer op.Done()

	if err := share.CreateSnapshot(ctx, retentionDays, adhoc); err != nil {
		return false, err
	}

	return true, nil
}

// ensureSoftDelete checks the recycle-bin protection on the file service and
// enables it when missing. Failures here are logged and alerted but never
// abort the run; the backup itself does not depend on soft delete.
func ensureSoftDelete(ctx context.Context, storage StorageService, run *RunContext,
	alerts *alerting.Dispatcher, watcher *watch.Watcher, logger *slog.Logger) {

	err := func() error {
		logger.Info("Checking if soft delete is enabled for the file share service")

		enabled, err := storage.IsSoftDeleteEnabled(ctx)
		if err != nil {
			return err
		}
		if enabled {
			logger.Info("Soft delete is already enabled. Skipping")
			return nil
		}

		logger.Info("Enabling soft delete for the file share service",
			"retention_days", softDeleteRetentionDays)

		op := watcher.Begin("Enable file share soft delete", run.CorrelationID)
		defer op.Done()

		return storage.EnableSoftDelete(ctx, softDeleteRetentionDays)
	}()

	if err != nil {
		message := fmt.Sprintf("Skipping soft delete enablement due to: %v - correlation_id=%s",
			err, run.CorrelationID)
		alerts.Send(ctx, alerting.Event{Type: alerting.AlertFail, StartTime: run.StartTime, Message: message})
		logger.Warn("Soft delete enablement skipped", "error", err)
	}
}
