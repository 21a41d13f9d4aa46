package policy

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// AllowedAdhocRetentionDays is the fixed set of retention periods a caller may
// request for an ad-hoc backup. Scheduled runs are not checked against this
// list; their retention value comes pre-validated from automation variables.
var AllowedAdhocRetentionDays = []int{
	3, 7, 15, 30, 45, 60, 67, 90, 180, 365, 730, 1095, 1460, 1825,
}

// ValidateRetentionDays parses a raw retention value and ensures it is a
// non-negative whole number of days. A failure here is a configuration error
// and aborts the run.
func ValidateRetentionDays(raw string) (int, error) {
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("retention days '%s' is not numeric: %w", raw, err)
	}

	if days < 0 {
		return 0, fmt.Errorf("retention days must be zero or positive, got %d", days)
	}

	return days, nil
}

// ValidateAdhocRetentionDays checks a retention value against the ad-hoc
// allow-list. It is only invoked for ad-hoc runs.
func ValidateAdhocRetentionDays(days int) error {
	if slices.Contains(AllowedAdhocRetentionDays, days) {
		return nil
	}

	allowed := make([]string, 0, len(AllowedAdhocRetentionDays))
	for _, d := range AllowedAdhocRetentionDays {
		allowed = append(allowed, strconv.Itoa(d))
	}

	return fmt.Errorf("the retention days for an adhoc backup must be one of: [%s]",
		strings.Join(allowed, ", "))
}
