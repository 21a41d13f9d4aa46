package policy

import "testing"

func TestValidateRetentionDays(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    int
		wantErr bool
	}{
		{name: "Plain Number", raw: "30", want: 30},
		{name: "Zero", raw: "0", want: 0},
		{name: "Surrounding Whitespace", raw: " 15 ", want: 15},
		{name: "Negative", raw: "-1", wantErr: true},
		{name: "Not Numeric", raw: "thirty", wantErr: true},
		{name: "Empty", raw: "", wantErr: true},
		{name: "Fractional", raw: "7.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateRetentionDays(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateRetentionDays(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ValidateRetentionDays(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidateAdhocRetentionDays(t *testing.T) {
	// Every value in the allow-list must pass.
	for _, days := range AllowedAdhocRetentionDays {
		if err := ValidateAdhocRetentionDays(days); err != nil {
			t.Errorf("ValidateAdhocRetentionDays(%d) = %v, want nil", days, err)
		}
	}

	// Values outside the list must be rejected, including near-misses.
	for _, days := range []int{0, 1, 2, 91, 89, 366, 1824, -7} {
		if err := ValidateAdhocRetentionDays(days); err == nil {
			t.Errorf("ValidateAdhocRetentionDays(%d) = nil, want error", days)
		}
	}
}
