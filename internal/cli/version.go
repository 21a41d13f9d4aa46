package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Populated at build time via ldflags.
var (
	SnappyVersion, SnappyCommit, SnappyDate string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display version, commit hash, build date, and other build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("AFS Snappy version: %s\n", SnappyVersion)
		fmt.Printf("Commit: %s\n", SnappyCommit)
		fmt.Printf("Built: %s\n", SnappyDate)
	},
}

func init() {
	rootCommand.AddCommand(versionCommand)
}
