package dbtime

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-03")
	if err != nil {
		t.Fatal(err)
	}
	if FormatDate(d) != "2025-02-03" || d.Hour() != 0 {
		t.Fatalf("unexpected %v", d)
	}

	// 20:00 UTC = 03:00 WIB hari berikutnya
	d, err = ParseDate("2025-02-03T20:00:00Z")
	if err != nil {
		t.Fatal(err)
	}
	if FormatDate(d) != "2025-02-04" {
		t.Fatalf("expected local next day, got %s", FormatDate(d))
	}

	if _, err := ParseDate("03/02/2025"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.December)
	if FormatDate(start) != "2024-12-01" || FormatDate(end) != "2025-01-01" {
		t.Fatalf("range %s..%s", FormatDate(start), FormatDate(end))
	}
}

func TestCalendarDay(t *testing.T) {
	want := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		in   time.Time
	}{
		{"tengah malam WIB", time.Date(2025, time.January, 1, 0, 0, 0, 0, Location())},
		{"nilai kolom date dari pgx", time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"malam WIB", time.Date(2025, time.January, 1, 23, 59, 0, 0, Location())},
		{"sore UTC = dini hari WIB", time.Date(2024, time.December, 31, 17, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := CalendarDay(c.in); !got.Equal(want) {
			t.Errorf("%s: got %v, want %v", c.name, got, want)
		}
		if FormatDate(c.in) != "2025-01-01" {
			t.Errorf("%s: FormatDate = %s", c.name, FormatDate(c.in))
		}
	}

	if !SameDay(time.Date(2025, time.January, 1, 0, 0, 0, 0, Location()), want) {
		t.Fatal("tengah malam WIB dan 00:00 UTC harus dianggap hari yang sama")
	}
	if !CalendarDay(time.Time{}).IsZero() {
		t.Fatal("waktu nol harus tetap nol")
	}
}
