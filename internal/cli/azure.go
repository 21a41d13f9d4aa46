package cli

import (
	"context"
	"strings"

	"github.com/awarirahul365/afs-snappy-go/internal/alerting"
	"github.com/awarirahul365/afs-snappy-go/internal/cloud"
	"github.com/awarirahul365/afs-snappy-go/internal/cloud/azure"
	"github.com/awarirahul365/afs-snappy-go/internal/runbook"
	"github.com/spf13/viper"
)

// gatherOptions assembles the runbook inputs from flags/automation variables
// plus the optional positional arguments of an invocation:
// [retentionDays] [correlationId] [triggeredFromVm] [sid].
// A retentionDays argument flags the run as ad-hoc.
func gatherOptions(args []string) runbook.Options {
	opts := runbook.Options{
		SubscriptionID: viper.GetString("subscription-id"),
		ResourceGroup:  viper.GetString("resource-group"),
		StorageAccount: viper.GetString("storage-account"),
		ExcludeShares:  splitExcludeList(viper.GetString("exclude")),
		RetentionDays:  viper.GetString("retention-days"),
		LogLevel:       viper.GetString("log-level"),
		TimeoutSeconds: viper.GetInt("timeout"),
	}

	if len(args) > 0 {
		opts.RetentionDays = args[0]
		opts.Adhoc = true
	}
	if len(args) > 1 {
		opts.CorrelationID = args[1]
	}
	if len(args) > 2 {
		opts.TriggeredFromVM = args[2]
	}
	if len(args) > 3 {
		opts.SID = args[3]
	}

	return opts
}

func splitExcludeList(raw string) []string {
	var names []string
	for _, name := range strings.Split(raw, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// alertTransport builds the TIC delivery transport from the global flags.
func alertTransport() alerting.Transport {
	return &alerting.TICTransport{
		URL:      viper.GetString("alert-url"),
		Username: viper.GetString("alert-username"),
		Password: viper.GetString("alert-password"),
	}
}

// azureConnector opens the authenticated Azure storage service for a run.
func azureConnector(opts runbook.Options) runbook.StorageConnector {
	return func(ctx context.Context, correlationID string) (runbook.StorageService, error) {
		client := &azure.Client{
			SubscriptionID: opts.SubscriptionID,
			ResourceGroup:  opts.ResourceGroup,
			StorageAccount: opts.StorageAccount,
			RetryConfig:    cloud.DefaultRetryConfig(),
		}

		if err := client.NewClient(ctx); err != nil {
			return nil, err
		}

		return storageAdapter{client}, nil
	}
}

// storageAdapter lifts *azure.Client to the runbook.StorageService interface;
// only Share needs wrapping to return the interface type.
type storageAdapter struct {
	*azure.Client
}

func (a storageAdapter) Share(name string) runbook.ShareService {
	return a.Client.Share(name)
}
