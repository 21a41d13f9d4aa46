package policy

import (
	"testing"
	"time"
)

func TestHasExpired(t *testing.T) {
	// Fixed reference time so day arithmetic is deterministic.
	now := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

	retention := func(days int) *int { return &days }

	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{
			name: "Elapsed Exactly Equals Retention (Keep)",
			snap: Snapshot{
				Name:          "share1-snap",
				CreatedAt:     now.AddDate(0, 0, -7),
				RetentionDays: retention(7),
			},
			want: false,
		},
		{
			name: "Elapsed One Day Past Retention (Delete)",
			snap: Snapshot{
				Name:          "share1-snap",
				CreatedAt:     now.AddDate(0, 0, -8),
				RetentionDays: retention(7),
			},
			want: true,
		},
		{
			name: "Partial Day Past Retention (Keep)",
			snap: Snapshot{
				// 7 days and 2 hours old: still 7 whole days elapsed.
				Name:          "share1-snap",
				CreatedAt:     now.AddDate(0, 0, -7).Add(-2 * time.Hour),
				RetentionDays: retention(7),
			},
			want: false,
		},
		{
			name: "Zero Retention Created Today (Keep)",
			snap: Snapshot{
				Name:          "share1-snap",
				CreatedAt:     now.Add(-3 * time.Hour),
				RetentionDays: retention(0),
			},
			want: false,
		},
		{
			name: "Zero Retention Created Yesterday (Delete)",
			snap: Snapshot{
				Name:          "share1-snap",
				CreatedAt:     now.AddDate(0, 0, -1),
				RetentionDays: retention(0),
			},
			want: true,
		},
		{
			name: "No Retention Metadata (Unmanaged, Keep)",
			snap: Snapshot{
				Name:      "share1-snap",
				CreatedAt: now.AddDate(0, 0, -400),
			},
			want: false,
		},
		{
			name: "Negative Retention (Unmanaged, Keep)",
			snap: Snapshot{
				Name:          "share1-snap",
				CreatedAt:     now.AddDate(0, 0, -400),
				RetentionDays: retention(-1),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasExpired(now, tt.snap); got != tt.want {
				t.Errorf("HasExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeletionEligible(t *testing.T) {
	zero := 0
	negative := -5

	tests := []struct {
		name string
		snap Snapshot
		want bool
	}{
		{name: "Zero Retention", snap: Snapshot{RetentionDays: &zero}, want: true},
		{name: "Negative Retention", snap: Snapshot{RetentionDays: &negative}, want: false},
		{name: "Missing Retention", snap: Snapshot{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeletionEligible(tt.snap); got != tt.want {
				t.Errorf("DeletionEligible() = %v, want %v", got, tt.want)
			}
		})
	}
}
