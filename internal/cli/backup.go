package cli

import (
	"fmt"

	"github.com/awarirahul365/afs-snappy-go/internal/runbook"
	"github.com/spf13/cobra"
)

var backupCommand = &cobra.Command{
	Use:     "backup [retentionDays] [correlationId] [triggeredFromVm] [sid]",
	Aliases: []string{"create-snapshots"},
	GroupID: "runbooks",
	Args:    cobra.MaximumNArgs(4),
	Short:   "Execute the snapshot creation runbook",
	Long: `Creates a snapshot backup of every file share in the storage account (minus the
exclusion list). Without arguments this is an automated run using the configured
default retention; passing a retention days value makes it an ad-hoc run, which
bypasses the once-per-day check but must use an allow-listed retention period.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(headerStyle.Render("AFS Snappy - Snapshot Creation"))

		opts := gatherOptions(args)

		_, err := runbook.RunBackupRunbook(cmd.Context(), opts, azureConnector(opts), alertTransport())
		return err
	},
}

func init() {
	rootCommand.AddCommand(backupCommand)
}
