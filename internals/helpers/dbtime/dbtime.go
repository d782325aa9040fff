// Package dbtime: waktu lokal desa (WIB) untuk tanggal transaksi, batas bulan laporan,
// dan tampilan.
package dbtime

import (
	"strings"
	"sync"
	"time"
)

const DateLayout = "2006-01-02"

var (
	locOnce sync.Once
	loc     *time.Location
)

// Location: Asia/Jakarta, fallback zona tetap UTC+7 bila tzdata tidak tersedia.
func Location() *time.Location {
	locOnce.Do(func() {
		l, err := time.LoadLocation("Asia/Jakarta")
		if err != nil {
			l = time.FixedZone("WIB", 7*3600)
		}
		loc = l
	})
	return loc
}

func Now() time.Time { return time.Now().In(Location()) }

// ParseDate menerima "YYYY-MM-DD" atau RFC3339 dan mengembalikan tengah malam lokal.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, Location()); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return TruncateDay(t), nil
}

// TruncateDay memotong ke 00:00 waktu lokal.
func TruncateDay(t time.Time) time.Time {
	lt := t.In(Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Location())
}

// MonthRange: [awal bulan, awal bulan berikutnya) waktu lokal.
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, Location())
	return start, start.AddDate(0, 1, 0)
}

// CalendarDay: tanggal kalender lokal dari t sebagai 00:00 UTC, bentuk yang sama dengan
// nilai kolom date hasil decode pgx. Nilai kolom date (00:00 UTC) tetap di harinya sendiri.
func CalendarDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	lt := t.In(Location())
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)
}

// SameDay membandingkan tanggal kalender lokal, bukan instan.
func SameDay(a, b time.Time) bool {
	return CalendarDay(a).Equal(CalendarDay(b))
}

// FormatDate: tanggal kalender lokal; nilai kolom date (00:00 UTC) tidak bergeser hari.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(Location()).Format(DateLayout)
}
