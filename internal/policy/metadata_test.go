package policy

import "testing"

func TestParseSnapshotMetadata(t *testing.T) {
	str := func(s string) *string { return &s }

	tests := []struct {
		name          string
		metadata      map[string]*string
		wantRetention *int
		wantInitiator string
		wantErr       bool
	}{
		{
			name: "Managed Snapshot",
			metadata: map[string]*string{
				"retentiondays": str("30"),
				"initiator":     str("automated"),
				"managedby":     str("afs-snappy"),
			},
			wantRetention: intPtr(30),
			wantInitiator: "automated",
		},
		{
			name: "Foreign Snapshot Without Retention",
			metadata: map[string]*string{
				"owner": str("someone-else"),
			},
			wantRetention: nil,
		},
		{
			name:          "Nil Metadata",
			metadata:      nil,
			wantRetention: nil,
		},
		{
			name: "Garbage Retention Value",
			metadata: map[string]*string{
				"retentiondays": str("soon"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseSnapshotMetadata(tt.metadata)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSnapshotMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if (meta.RetentionDays == nil) != (tt.wantRetention == nil) {
				t.Fatalf("RetentionDays = %v, want %v", meta.RetentionDays, tt.wantRetention)
			}
			if meta.RetentionDays != nil && *meta.RetentionDays != *tt.wantRetention {
				t.Errorf("RetentionDays = %d, want %d", *meta.RetentionDays, *tt.wantRetention)
			}
			if meta.Initiator != tt.wantInitiator {
				t.Errorf("Initiator = %q, want %q", meta.Initiator, tt.wantInitiator)
			}
		})
	}
}

func TestNewSnapshotMetadata(t *testing.T) {
	meta := NewSnapshotMetadata(90, true)
	if meta.Initiator != InitiatorAdhoc {
		t.Errorf("Initiator = %q, want %q", meta.Initiator, InitiatorAdhoc)
	}

	stored := meta.ToShareMetadata()
	if stored["retentiondays"] == nil || *stored["retentiondays"] != "90" {
		t.Errorf("stored retentiondays = %v, want \"90\"", stored["retentiondays"])
	}

	// What the deletion runbook reads back must match what was written.
	parsed, err := ParseSnapshotMetadata(stored)
	if err != nil {
		t.Fatalf("ParseSnapshotMetadata() error = %v", err)
	}
	if parsed.RetentionDays == nil || *parsed.RetentionDays != 90 {
		t.Errorf("parsed RetentionDays = %v, want 90", parsed.RetentionDays)
	}
}

func intPtr(v int) *int {
	return &v
}
