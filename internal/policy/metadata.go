package policy

import (
	"strconv"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// Initiator values recorded on every snapshot this tool creates.
const (
	InitiatorAutomated = "automated"
	InitiatorAdhoc     = "adhoc"
)

// managedByTag identifies snapshots created by this tool in the share
// metadata. It is informational; deletion eligibility is decided solely by
// the presence of a retention value.
const managedByTag = "afs-snappy"

// SnapshotMetadata is the schema for the metadata stored on a created
// snapshot. The deletion runbook reads it back to learn the retention period;
// a snapshot without a parseable retention value is treated as unmanaged.
type SnapshotMetadata struct {
	RetentionDays *int   `json:"retentiondays"`
	Initiator     string `json:"initiator"`
	ManagedBy     string `json:"managedby"`
}

// NewSnapshotMetadata builds the metadata to stamp on a snapshot at creation.
func NewSnapshotMetadata(retentionDays int, adhoc bool) SnapshotMetadata {
	initiator := InitiatorAutomated
	if adhoc {
		initiator = InitiatorAdhoc
	}

	return SnapshotMetadata{
		RetentionDays: &retentionDays,
		Initiator:     initiator,
		ManagedBy:     managedByTag,
	}
}

// ToShareMetadata serializes the metadata into the string map the storage
// management API expects on a file share.
func (m SnapshotMetadata) ToShareMetadata() map[string]*string {
	meta := map[string]*string{
		"initiator": ptr(m.Initiator),
		"managedby": ptr(m.ManagedBy),
	}
	if m.RetentionDays != nil {
		meta["retentiondays"] = ptr(strconv.Itoa(*m.RetentionDays))
	}
	return meta
}

// ParseSnapshotMetadata hydrates a SnapshotMetadata from the string map
// stored on a share snapshot. Type coercion (string to int) is handled by
// weakly-typed decoding, so values written by other tooling still parse as
// long as the keys match.
func ParseSnapshotMetadata(metadata map[string]*string) (*SnapshotMetadata, error) {
	flattened := make(map[string]string, len(metadata))
	for k, v := range metadata {
		if v != nil {
			flattened[k] = *v
		}
	}

	return decodeMetadata[SnapshotMetadata](flattened)
}

// decodeMetadata is a generic helper to unmarshal a map[string]string into a
// strongly-typed struct using JSON tags. It uses weak typing to handle
// string-to-int/bool conversions.
func decodeMetadata[T any](metadata map[string]string) (*T, error) {
	var result T

	config := &mapstructure.DecoderConfig{
		Result:           &result,
		WeaklyTypedInput: true,
		TagName:          "json",
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
		),
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(metadata); err != nil {
		return nil, err
	}

	return &result, nil
}

func ptr(s string) *string {
	return &s
}
