package cli

import (
	"fmt"
	"time"

	"github.com/awarirahul365/afs-snappy-go/internal/runbook"
	"github.com/spf13/cobra"
)

var deletionCommand = &cobra.Command{
	Use:     "delete-snapshots [correlationId]",
	Aliases: []string{"expire-snapshots"},
	GroupID: "runbooks",
	Args:    cobra.MaximumNArgs(1),
	Short:   "Execute the snapshot retention/deletion runbook",
	Long: `Sweeps all snapshots of every file share in the storage account, compares the
age of each managed snapshot against its stored retention days, and permanently
deletes those that have exceeded their retention period.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(headerStyle.Render("AFS Snappy - Snapshot Deletion"))

		opts := gatherOptions(nil)
		if len(args) > 0 {
			opts.CorrelationID = args[0]
		}

		_, err := runbook.RunDeletionRunbook(cmd.Context(), opts, azureConnector(opts), alertTransport(),
			time.Now().UTC())
		return err
	},
}

func init() {
	rootCommand.AddCommand(deletionCommand)
}
