package azure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	azpolicy "github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/awarirahul365/afs-snappy-go/internal/cloud"
)

// managementScope is the token audience for Azure Resource Manager calls.
const managementScope = "https://management.azure.com/.default"

// Client manages the connection and service clients for the storage
// management plane of one storage account. It wraps the Azure SDK clients
// with retry logic.
type Client struct {
	SubscriptionID string
	ResourceGroup  string
	StorageAccount string
	// RetryConfig defines the behavior for transient error handling
	RetryConfig cloud.RetryConfig

	credential azcore.TokenCredential
	accounts   *armstorage.AccountsClient
	services   *armstorage.FileServicesClient
	shares     *armstorage.FileSharesClient
}

// executeWithRetry runs an operation using the client's retry configuration.
func (c *Client) executeWithRetry(ctx context.Context, opName string, operation func(ctx context.Context) error) error {
	return ExecuteAction(ctx, c.RetryConfig, opName, operation)
}

// NewClient authenticates with the managed identity of the automation host
// and initializes the storage management service clients. The initial token
// acquisition runs with retry logic to ride out transient endpoint issues.
func (c *Client) NewClient(ctx context.Context) error {
	slog.Debug("Initializing Azure storage management client",
		"subscription_id", c.SubscriptionID,
		"storage_account", c.StorageAccount)

	cred, err := azidentity.NewManagedIdentityCredential(nil)
	if err != nil {
		return fmt.Errorf("building managed identity credential: %w", err)
	}

	// Probe the identity endpoint up front so authentication problems
	// surface as a run-fatal error instead of failing on the first API call.
	tokenOperation := func(innerCtx context.Context) error {
		_, err := cred.GetToken(innerCtx, azpolicy.TokenRequestOptions{
			Scopes: []string{managementScope},
		})
		return err
	}

	if err := c.executeWithRetry(ctx, "AcquireManagedIdentityToken", tokenOperation); err != nil {
		return fmt.Errorf("acquiring managed identity token: %w", err)
	}

	factory, err := armstorage.NewClientFactory(c.SubscriptionID, cred, nil)
	if err != nil {
		return fmt.Errorf("initializing storage management clients: %w", err)
	}

	c.credential = cred
	c.accounts = factory.NewAccountsClient()
	c.services = factory.NewFileServicesClient()
	c.shares = factory.NewFileSharesClient()

	return nil
}
