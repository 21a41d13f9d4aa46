package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
)

// Validate confirms the subscription and the storage account are reachable
// with the current credentials. A failure here is run-fatal for the
// runbooks.
func (c *Client) Validate(ctx context.Context) error {
	operation := func(innerCtx context.Context) error {
		_, err := c.accounts.GetProperties(innerCtx, c.ResourceGroup, c.StorageAccount, nil)
		return err
	}

	if err := c.executeWithRetry(ctx, "ValidateStorageAccount", operation); err != nil {
		return fmt.Errorf("validating storage account '%s': %w", c.StorageAccount, err)
	}

	return nil
}

// IsSoftDeleteEnabled reports whether share soft delete is active on the
// account's file service.
func (c *Client) IsSoftDeleteEnabled(ctx context.Context) (bool, error) {
	var enabled bool

	operation := func(innerCtx context.Context) error {
		resp, err := c.services.GetServiceProperties(innerCtx, c.ResourceGroup, c.StorageAccount, nil)
		if err != nil {
			return err
		}

		props := resp.FileServiceProperties.FileServiceProperties
		enabled = props != nil &&
			props.ShareDeleteRetentionPolicy != nil &&
			props.ShareDeleteRetentionPolicy.Enabled != nil &&
			*props.ShareDeleteRetentionPolicy.Enabled

		return nil
	}

	if err := c.executeWithRetry(ctx, "GetFileServiceProperties", operation); err != nil {
		return false, fmt.Errorf("reading file service properties: %w", err)
	}

	return enabled, nil
}

// EnableSoftDelete turns on share soft delete for the file service with the
// given retention window in days.
func (c *Client) EnableSoftDelete(ctx context.Context, days int) error {
	properties := armstorage.FileServiceProperties{
		FileServiceProperties: &armstorage.FileServicePropertiesProperties{
			ShareDeleteRetentionPolicy: &armstorage.DeleteRetentionPolicy{
				Enabled: to.Ptr(true),
				Days:    to.Ptr(int32(days)),
			},
		},
	}

	operation := func(innerCtx context.Context) error {
		_, err := c.services.SetServiceProperties(innerCtx, c.ResourceGroup, c.StorageAccount, properties, nil)
		return err
	}

	if err := c.executeWithRetry(ctx, "EnableFileShareSoftDelete", operation); err != nil {
		return fmt.Errorf("enabling soft delete: %w", err)
	}

	return nil
}

// ListShares enumerates the live file shares of the storage account, minus
// the exclusion list. Exclusion matching is case-insensitive on the share
// name. The returned order is the listing order of the API.
func (c *Client) ListShares(ctx context.Context, exclude []string) ([]string, error) {
	excluded := make(map[string]struct{}, len(exclude))
	for _, name := range exclude {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			excluded[name] = struct{}{}
		}
	}

	var names []string

	operation := func(innerCtx context.Context) error {
		names = names[:0] // a retried listing starts over

		pager := c.shares.NewListPager(c.ResourceGroup, c.StorageAccount, nil)
		for pager.More() {
			page, err := pager.NextPage(innerCtx)
			if err != nil {
				return err
			}

			for _, item := range page.Value {
				if item.Name == nil {
					continue
				}
				if item.Properties != nil && item.Properties.Deleted != nil && *item.Properties.Deleted {
					continue
				}
				if _, skip := excluded[strings.ToLower(*item.Name)]; skip {
					continue
				}
				names = append(names, *item.Name)
			}
		}

		return nil
	}

	if err := c.executeWithRetry(ctx, "ListFileShares", operation); err != nil {
		return nil, fmt.Errorf("listing file shares: %w", err)
	}

	return names, nil
}
