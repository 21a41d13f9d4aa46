package azure

import "errors"

// Sentinel errors the runbooks branch on at the per-volume boundary.
var (
	// ErrShareNotFound reports that a file share no longer exists in the
	// storage account.
	ErrShareNotFound = errors.New("file share not found")

	// ErrSnapshotLimitExceeded reports that a share has reached the
	// configured snapshot capacity ceiling.
	ErrSnapshotLimitExceeded = errors.New("snapshot storage limit exceeded")
)
