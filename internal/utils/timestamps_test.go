package utils

import (
	"testing"
	"time"
)

func TestParseTimestampMillis(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantNil bool
		wantErr bool
	}{
		{
			name:  "microseconds with Z",
			input: "2020-10-10T03:46:42.098751Z",
			want:  time.Date(2020, 10, 10, 3, 46, 42, 98751000, time.UTC),
		},
		{
			name:  "whole seconds with Z",
			input: "2020-10-10T03:00:00Z",
			want:  time.Date(2020, 10, 10, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "explicit positive offset",
			input: "2020-10-10T08:30:00+05:30",
			want:  time.Date(2020, 10, 10, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "explicit negative offset with fraction",
			input: "2020-10-09T23:00:00.5-04:00",
			want:  time.Date(2020, 10, 10, 3, 0, 0, 500000000, time.UTC),
		},
		{
			name:  "no offset is read as UTC",
			input: "2020-10-10T03:00:00",
			want:  time.Date(2020, 10, 10, 3, 0, 0, 0, time.UTC),
		},
		{
			name:  "malformed fraction is stripped keeping offset",
			input: "2020-10-10T03:46:42.+00:00",
			want:  time.Date(2020, 10, 10, 3, 46, 42, 0, time.UTC),
		},
		{
			name:  "non-numeric fraction is stripped keeping negative offset",
			input: "2020-10-09T22:46:42.xyz-05:00",
			want:  time.Date(2020, 10, 10, 3, 46, 42, 0, time.UTC),
		},
		{
			name:  "offset without colon",
			input: "2020-10-10T03:46:42+0000",
			want:  time.Date(2020, 10, 10, 3, 46, 42, 0, time.UTC),
		},
		{
			name:  "negative offset without colon and fraction",
			input: "2020-10-09T22:46:42.25-0500",
			want:  time.Date(2020, 10, 10, 3, 46, 42, 250000000, time.UTC),
		},
		{
			name:  "non-numeric fraction is stripped keeping compact offset",
			input: "2020-10-09T22:46:42.xyz-0500",
			want:  time.Date(2020, 10, 10, 3, 46, 42, 0, time.UTC),
		},
		{
			name:    "empty string",
			input:   "",
			wantNil: true,
		},
		{
			name:    "garbage",
			input:   "not a timestamp",
			wantNil: true,
			wantErr: true,
		},
		{
			name:    "impossible month",
			input:   "2020-13-10T03:00:00Z",
			wantNil: true,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestampMillis(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestampMillis(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantNil {
				if got != nil {
					t.Errorf("ParseTimestampMillis(%q) = %d, want nil", tt.input, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseTimestampMillis(%q) = nil, want %d", tt.input, tt.want.UnixMilli())
			}
			if *got != tt.want.UnixMilli() {
				t.Errorf("ParseTimestampMillis(%q) = %d, want %d", tt.input, *got, tt.want.UnixMilli())
			}
		})
	}
}

func TestParseDateString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "full timestamp", input: "2020-10-10T03:46:42.098751Z", want: "2020-10-10"},
		{name: "midnight due", input: "2024-02-29T00:00:00.000Z", want: "2024-02-29"},
		{name: "date only", input: "2021-01-05", want: "2021-01-05"},
		{name: "empty", input: ""},
		{name: "invalid day", input: "2021-02-30T00:00:00Z", wantErr: true},
		{name: "garbage", input: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateString(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("ParseDateString(%q) = %q, want nil", tt.input, *got)
				}
				return
			}
			if got == nil || *got != tt.want {
				t.Errorf("ParseDateString(%q) = %v, want %q", tt.input, got, tt.want)
			}
		})
	}
}
