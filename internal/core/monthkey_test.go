package core

import (
	"testing"
	"time"
)

func TestNewMonthKey_Ordering(t *testing.T) {
	// Year boundaries must not break ordering.
	dec := NewMonthKey(2024, 12)
	jan := NewMonthKey(2025, 1)
	if jan != dec+1 {
		t.Errorf("NewMonthKey(2025,1) = %d, want %d", jan, dec+1)
	}
	if !(dec < jan) {
		t.Errorf("december key %d not before january key %d", dec, jan)
	}
}

func TestMonthKey_Parts_Inverse(t *testing.T) {
	for year := 1999; year <= 2031; year++ {
		for month := 1; month <= 12; month++ {
			gotYear, gotMonth := NewMonthKey(year, month).Parts()
			if gotYear != year || gotMonth != month {
				t.Fatalf("Parts() = (%d,%d), want (%d,%d)", gotYear, gotMonth, year, month)
			}
		}
	}
}

func TestParseMonthParts(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantKey MonthKey
		wantTS  time.Time
		wantErr bool
	}{
		{
			name:    "full date",
			value:   "2025-03-15",
			wantKey: NewMonthKey(2025, 3),
			wantTS:  time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "month only defaults day to 1",
			value:   "2025-03",
			wantKey: NewMonthKey(2025, 3),
			wantTS:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			value:   "march 2025",
			wantErr: true,
		},
		{
			name:    "month zero",
			value:   "2025-00-10",
			wantErr: true,
		},
		{
			name:    "month thirteen",
			value:   "2025-13",
			wantErr: true,
		},
		{
			name:    "day zero",
			value:   "2025-03-00",
			wantErr: true,
		},
		{
			name:    "day thirty-two",
			value:   "2025-03-32",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMonthParts(tt.value, "test date")
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseMonthParts(%q) expected error, got %+v", tt.value, got)
				}
				if !IsValidationError(err) {
					t.Errorf("ParseMonthParts(%q) error = %v, want ValidationError", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMonthParts(%q) unexpected error: %v", tt.value, err)
			}
			if got.Key != tt.wantKey {
				t.Errorf("Key = %d, want %d", got.Key, tt.wantKey)
			}
			if !got.Timestamp.Equal(tt.wantTS) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.wantTS)
			}
		})
	}
}

func TestParseMonthParts_ErrorCarriesContext(t *testing.T) {
	_, err := ParseMonthParts("nope", "snapshot date")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got[:13] != "snapshot date" {
		t.Errorf("error %q does not start with context", got)
	}
}
