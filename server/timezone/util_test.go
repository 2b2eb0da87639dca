package timezone

import (
	"testing"
	"time"
)

func TestParseTimezone(t *testing.T) {
	tests := []struct {
		name    string
		tz      string
		wantErr bool
	}{
		{
			name: "UTC",
			tz:   "UTC",
		},
		{
			name: "empty string defaults to UTC",
			tz:   "",
		},
		{
			name: "America/New_York",
			tz:   "America/New_York",
		},
		{
			name:    "invalid timezone",
			tz:      "Invalid/Timezone",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseTimezone(tt.tz)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseTimezone() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if loc == nil {
				t.Errorf("ParseTimezone() returned nil location")
			}
		})
	}
}

func TestFormatInstant(t *testing.T) {
	ts := time.Date(2026, 7, 15, 14, 0, 0, 999, time.FixedZone("EDT", -4*3600))
	if got := FormatInstant(ts); got != "2026-07-15T18:00:00Z" {
		t.Errorf("FormatInstant() = %q", got)
	}
}

func TestParseInstant(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "canonical", input: "2026-07-15T18:30:00Z", want: "2026-07-15T18:30:00Z"},
		{name: "fractional seconds", input: "2026-06-15T18:00:00.000Z", want: "2026-06-15T18:00:00Z"},
		{name: "numeric offset", input: "2026-06-15T14:00:00-04:00", want: "2026-06-15T18:00:00Z"},
		{name: "garbage", input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInstant(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseInstant() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if FormatInstant(got) != tt.want {
				t.Errorf("ParseInstant() = %s, want %s", FormatInstant(got), tt.want)
			}
		})
	}
}
