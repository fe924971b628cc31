package caixa

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Date
		wantErr bool
	}{
		{name: "iso", input: "2026-03-06", want: NewDate(2026, time.March, 6)},
		{name: "lenient single digits", input: "2026-3-6", want: NewDate(2026, time.March, 6)},
		{name: "padded spaces", input: " 2026-03-06 ", want: NewDate(2026, time.March, 6)},
		{name: "garbage", input: "06/03/2026", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) = %v, want error", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseDate(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestDateNormalization(t *testing.T) {
	// Overflowing day rolls into the next month, like time.Date does.
	got := NewDate(2026, time.January, 32)
	if want := NewDate(2026, time.February, 1); got != want {
		t.Errorf("NewDate(2026, Jan, 32) = %v, want %v", got, want)
	}
	if got := NewDate(2026, time.February, 28).Add(1); got != NewDate(2026, time.March, 1) {
		t.Errorf("Add(1) across month = %v", got)
	}
}

func TestDateOrdering(t *testing.T) {
	a, b := MustParse("2026-03-05"), MustParse("2026-03-06")
	if !a.Before(b) || b.Before(a) {
		t.Error("2026-03-05 < 2026-03-06")
	}
	if !b.After(a) || a.After(b) {
		t.Error("2026-03-06 > 2026-03-05")
	}
	if a.Before(a) || a.After(a) {
		t.Error("a day neither precedes nor follows itself")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MustParse("2026-03-06")
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(data) != `"2026-03-06"` {
		t.Errorf("MarshalJSON() = %s, want \"2026-03-06\"", data)
	}
	var back Date
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON() error = %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
