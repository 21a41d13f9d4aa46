package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/awarirahul365/afs-snappy-go/internal/runbook"
	"github.com/go-co-op/gocron-ui/server"
	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

var (
	backupSchedule   string
	deletionSchedule string
	bindAddress      string
)

var daemonCommand = &cobra.Command{
	Use:     "daemon",
	GroupID: "runbooks",
	Short:   "Run AFS Snappy in daemon mode",
	Long: `Starts AFS Snappy as a long-running service that executes the snapshot creation
and deletion runbooks on cron schedules. Each scheduled execution is a normal
automated run with its own correlation id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		banner := fmt.Sprintf("AFS Snappy - Daemon Mode\n\nVersion: %s\nBuild Date: %s", SnappyVersion, SnappyDate)
		fmt.Println(headerStyle.Render(banner))

		opts := gatherOptions(nil)
		dlog := runbook.SetupLogger(opts.LogLevel, opts.StorageAccount).With("component", "daemon")

		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}
		s.Start()
		dlog.Info("Scheduler started", "storage_account", opts.StorageAccount)

		backupJob, err := s.NewJob(
			gocron.CronJob(backupSchedule, false),
			gocron.NewTask(func() {
				run, err := runbook.RunBackupRunbook(context.Background(), opts, azureConnector(opts), alertTransport())
				if err != nil {
					dlog.Error("Scheduled backup run failed", "error", err, "correlation_id", run.CorrelationID)
					return
				}
				dlog.Info("Scheduled backup run completed",
					"snapshots_created", run.SnapshotsCreated,
					"correlation_id", run.CorrelationID)
			}),
			gocron.WithName("Snapshot Creation Runbook"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}

		deletionJob, err := s.NewJob(
			gocron.CronJob(deletionSchedule, false),
			gocron.NewTask(func() {
				run, err := runbook.RunDeletionRunbook(context.Background(), opts, azureConnector(opts), alertTransport(),
					time.Now().UTC())
				if err != nil {
					dlog.Error("Scheduled deletion run failed", "error", err, "correlation_id", run.CorrelationID)
					return
				}
				dlog.Info("Scheduled deletion run completed",
					"snapshots_deleted", run.SnapshotsDeleted,
					"correlation_id", run.CorrelationID)
			}),
			gocron.WithName("Snapshot Deletion Runbook"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return err
		}

		for _, job := range []gocron.Job{backupJob, deletionJob} {
			if nextRun, err := job.NextRun(); err == nil {
				dlog.Info("Job scheduled",
					"job_name", job.Name(),
					"job_id", job.ID(),
					"next_run", nextRun.Format(time.RFC3339))
			}
		}

		srv := server.NewServer(s, 8080, server.WithTitle("AFS Snappy - Dashboard"))
		go func() {
			dlog.Info("Scheduler UI started", "address", bindAddress)
			if err := http.ListenAndServe(bindAddress, srv.Router); err != nil {
				dlog.Error("Scheduler UI server stopped", "error", err)
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		dlog.Warn("Shutting down scheduler due to system signal...")
		return s.Shutdown()
	},
}

func init() {
	rootCommand.AddCommand(daemonCommand)
	daemonCommand.Flags().StringVar(&backupSchedule, "backup-schedule", "0 1 * * *", "Cron schedule for snapshot creation")
	daemonCommand.Flags().StringVar(&deletionSchedule, "deletion-schedule", "0 3 * * *", "Cron schedule for snapshot deletion")
	daemonCommand.Flags().StringVar(&bindAddress, "bind-address", "0.0.0.0:8080", "Address to bind the scheduler UI server")
}
