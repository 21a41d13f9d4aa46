package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	subscriptionID string
	resourceGroup  string
	storageAccount string
	excludeShares  string
	retentionDays  string
	logLevel       string
	timeout        int
	alertURL       string
	alertUsername  string
	alertPassword  string
)

var rootCommand = &cobra.Command{
	Use:     "afs-snappy",
	Aliases: []string{"snappy"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 'version' and 'help' run without the account configuration.
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		for _, key := range []string{"subscription-id", "resource-group", "storage-account"} {
			if viper.GetString(key) == "" {
				return fmt.Errorf("required flag \"%s\" not set (flag or %s env var)", key, envVarName(key))
			}
		}

		return nil
	},
	Short: "AFS Snappy: Azure File Share snapshot backup and retention",
	Long: `AFS Snappy is a snapshot backup and retention tool for the Azure File Share
volumes of a storage account. It creates daily (or ad-hoc) snapshot backups with a
retention period stamped on each snapshot, and deletes snapshots that have outlived
their retention, alerting the monitoring backend on every outcome.`,
}

func Execute() error {
	return rootCommand.Execute()
}

// envVarName maps a flag key to the automation variable that backs it.
func envVarName(key string) string {
	return "AFSSNAPPY_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

func init() {
	rootCommand.AddGroup(&cobra.Group{ID: "runbooks", Title: "Runbooks"})

	// Global persistent flags, each backed by an automation/env variable.
	flags := rootCommand.PersistentFlags()
	flags.StringVar(&subscriptionID, "subscription-id", "", "Azure subscription id (required)")
	flags.StringVar(&resourceGroup, "resource-group", "", "Resource group of the storage account (required)")
	flags.StringVar(&storageAccount, "storage-account", "", "Storage account holding the file shares (required)")
	flags.StringVar(&excludeShares, "exclude", "", "Comma-separated file share names to exclude")
	flags.StringVar(&retentionDays, "retention-days", "30", "Default retention days for automated backups")
	flags.StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	flags.IntVar(&timeout, "timeout", 0, "Global execution timeout in seconds (0 = run indefinitely)")
	flags.StringVar(&alertURL, "alert-url", "", "TIC alerting endpoint URL")
	flags.StringVar(&alertUsername, "alert-username", "", "TIC alerting basic auth username")
	flags.StringVar(&alertPassword, "alert-password", "", "TIC alerting basic auth password")

	for _, key := range []string{
		"subscription-id", "resource-group", "storage-account", "exclude",
		"retention-days", "log-level", "timeout",
		"alert-url", "alert-username", "alert-password",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}

	viper.SetEnvPrefix("AFSSNAPPY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
