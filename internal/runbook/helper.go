package runbook

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// SetupLogger configures the run-wide logger. It uses "tint" for colorized,
// structured logs that are easy to read in terminals and automation job
// streams alike.
func SetupLogger(level string, storageAccount string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel,
	})

	return slog.New(handler).With("storage_account", storageAccount)
}

// DeriveCustomerID extracts the customer identifier from a resource group
// name. Resource groups follow the "rg-<cid>-..." convention; the cid is the
// first segment after the rg prefix, or the first segment outright when the
// prefix is absent.
func DeriveCustomerID(resourceGroup string) string {
	parts := strings.Split(strings.ToLower(resourceGroup), "-")
	if len(parts) > 1 && parts[0] == "rg" {
		return parts[1]
	}
	return parts[0]
}

// alertHostname picks the host identifier attached to alerts: the triggering
// VM when the run was kicked off from one, otherwise the storage account.
func alertHostname(triggeredFromVM, storageAccount string) string {
	if triggeredFromVM != "" {
		return triggeredFromVM
	}
	return storageAccount
}
