package policy

import "time"

// Snapshot is the backup engine's view of one file share snapshot.
// RetentionDays is nil when the snapshot carries no retention metadata,
// which marks it as unmanaged: the deletion runbook never touches it.
type Snapshot struct {
	Name          string
	CreatedAt     time.Time
	RetentionDays *int
}

// DeletionEligible reports whether a snapshot is managed by the retention
// policy at all. Only snapshots carrying a retention value of zero or more
// days may ever be deleted; anything else is left alone.
func DeletionEligible(snap Snapshot) bool {
	return snap.RetentionDays != nil && *snap.RetentionDays >= 0
}

// HasExpired decides if a snapshot has outlived its retention period.
//
// The comparison is on whole elapsed days and uses strict greater-than: a
// snapshot is kept through its full retention window and becomes eligible for
// deletion the day after the window lapses. A retention of zero days expires
// the day after creation.
func HasExpired(now time.Time, snap Snapshot) bool {
	if !DeletionEligible(snap) {
		return false
	}

	elapsedDays := int(now.Sub(snap.CreatedAt).Hours() / 24)

	return elapsedDays > *snap.RetentionDays
}
