package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	// Day 0 of March is the last day of February.
	if got, want := New(2024, time.March, 0), New(2024, time.February, 29); got != want {
		t.Errorf("New(2024, March, 0) = %v want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		str     string
		want    Date
		wantErr bool
	}{
		{"2024-02-29", New(2024, time.February, 29), false},
		{"2024-2-9", New(2024, time.February, 9), false}, // lenient
		{"2024/02/29", Date{}, true},
		{"not a date", Date{}, true},
	}
	for _, tc := range testCases {
		got, err := Parse(tc.str)
		if tc.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) = %v want an error", tc.str, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) failed: %v", tc.str, err)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %v want %v", tc.str, got, tc.want)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	d := New(2024, time.January, 5)
	if d.String() != "2024-01-05" {
		t.Errorf("String() = %q want 2024-01-05", d.String())
	}
	got, err := Parse(d.String())
	if err != nil || got != d {
		t.Errorf("Parse(String()) = %v, %v want %v", got, err, d)
	}
}

func TestAddMonths(t *testing.T) {
	testCases := []struct {
		d      Date
		months int
		want   Date
	}{
		{New(2024, time.April, 15), -6, New(2023, time.October, 15)},
		{New(2024, time.January, 31), 1, New(2024, time.March, 2)}, // calendar normalization
		{New(2024, time.December, 31), 2, New(2025, time.March, 3)},
	}
	for _, tc := range testCases {
		if got := tc.d.AddMonths(tc.months); got != tc.want {
			t.Errorf("%v.AddMonths(%d) = %v want %v", tc.d, tc.months, got, tc.want)
		}
	}
}

func TestMonthEnd(t *testing.T) {
	if got, want := New(2024, time.February, 10).MonthEnd(), New(2024, time.February, 29); got != want {
		t.Errorf("MonthEnd() = %v want %v", got, want)
	}
}

func TestCompare(t *testing.T) {
	a, b := New(2024, time.January, 1), New(2024, time.January, 2)
	if !a.Before(b) || b.Before(a) {
		t.Error("Before misreports")
	}
	if !b.After(a) || a.After(b) {
		t.Error("After misreports")
	}
	if a.Compare(b) != -1 || b.Compare(a) != 1 || a.Compare(a) != 0 {
		t.Error("Compare misreports")
	}
}

func TestIterate(t *testing.T) {
	h1 := new(History[float64]).
		Append(New(2024, time.January, 1), 1).
		Append(New(2024, time.March, 1), 3)
	h2 := new(History[float64]).
		Append(New(2024, time.January, 1), 10).
		Append(New(2024, time.February, 1), 20)

	var got []Date
	for d := range Iterate(h1, h2) {
		got = append(got, d)
	}
	want := []Date{New(2024, time.January, 1), New(2024, time.February, 1), New(2024, time.March, 1)}
	if len(got) != len(want) {
		t.Fatalf("Iterate yielded %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Iterate[%d] = %v want %v", i, got[i], want[i])
		}
	}
}
