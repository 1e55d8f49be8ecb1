package normalize

import (
	"testing"
	"time"
)

func TestDOB(t *testing.T) {
	tests := []struct {
		raw      string
		wantISO  string
		wantYear int
	}{
		{"24/06/1987", "1987-06-24", 1987},
		{"4/6/1987", "1987-06-04", 1987},
		{"24.06.1987", "1987-06-24", 1987},
		{"1987-06-24", "1987-06-24", 1987},
		{"1987-06-24T00:00:00", "1987-06-24", 1987},
		{"Jun 24, 1987 (37)", "1987-06-24", 1987},
		{"June 24, 1987", "1987-06-24", 1987},
		{"Sept 3, 2001", "2001-09-03", 2001},
		{"24 Jun 1987", "1987-06-24", 1987},
		{"1987", "", 1987},
		{"31/02/1990", "", 1990},
		{"13/13/1990", "", 1990},
		{"24/06/1787", "", 0},
		{"garbage", "", 0},
		{"", "", 0},
		{"Smarch 4, 1990", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			iso, year := DOB(tt.raw)
			if iso != tt.wantISO || year != tt.wantYear {
				t.Fatalf("DOB(%q) = (%q, %d), want (%q, %d)", tt.raw, iso, year, tt.wantISO, tt.wantYear)
			}
		})
	}
}

func TestAge(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"22-105", 22},
		{"37", 37},
		{"22.0", 22},
		{" 19 ", 19},
		{"", 0},
		{"abc", 0},
		{"0", 0},
	}
	for _, tt := range tests {
		if got := Age(tt.raw); got != tt.want {
			t.Errorf("Age(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestAgeAt(t *testing.T) {
	ref := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		dob  string
		want int
	}{
		{"1987-06-24", 37},
		{"1987-07-01", 37},
		{"1987-07-02", 36},
		{"2030-01-01", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := AgeAt(tt.dob, ref); got != tt.want {
			t.Errorf("AgeAt(%q) = %d, want %d", tt.dob, got, tt.want)
		}
	}
}
