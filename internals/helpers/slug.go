package helper

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"
)

var (
	reNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	reHyphen   = regexp.MustCompile(`-+`)
)

const slugMaxLen = 120

// Slugify: teks bebas → [a-z0-9-], diakritik dibuang, fallback "item".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range norm.NFD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	s = reNonAlnum.ReplaceAllString(b.String(), "-")
	s = reHyphen.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > slugMaxLen {
		s = strings.Trim(s[:slugMaxLen], "-")
	}
	if s == "" {
		return "item"
	}
	return s
}

// UniqueSlug mencari slug yang belum dipakai (case-insensitive) di table.column,
// menambah suffix -2, -3, ... lalu fallback potongan uuid.
// excludeCol/excludeID opsional untuk update (abaikan baris sendiri).
func UniqueSlug(ctx context.Context, db *gorm.DB, table, column, base, excludeCol string, excludeID any) (string, error) {
	slug := base
	for i := 0; i < 20; i++ {
		q := db.WithContext(ctx).Table(table).Where(fmt.Sprintf("LOWER(%s) = ?", column), strings.ToLower(slug))
		if excludeCol != "" && excludeID != nil {
			q = q.Where(fmt.Sprintf("%s <> ?", excludeCol), excludeID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return slug, nil
		}
		slug = withSuffix(base, fmt.Sprintf("-%d", i+2))
	}
	return withSuffix(base, "-"+uuid.NewString()[:8]), nil
}

func withSuffix(base, suffix string) string {
	keep := slugMaxLen - len(suffix)
	if len(base) > keep {
		base = strings.Trim(base[:keep], "-")
	}
	return base + suffix
}
