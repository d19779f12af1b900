package layout

import (
	"fmt"
	"strings"
	"time"
)

// DefaultDatePattern is used when a template gives no explicit pattern.
const DefaultDatePattern = "yyyy-MM-dd HH:mm"

// FormatDate substitutes the tokens yyyy, MM, dd, HH, mm and ss against
// zero padded date components. The replacement happens in a single pass,
// so substituted output is never reprocessed and the case sensitive MM/mm
// pair cannot corrupt each other.
func FormatDate(t time.Time, pattern string) string {
	if pattern == "" {
		pattern = DefaultDatePattern
	}

	r := strings.NewReplacer(
		"yyyy", fmt.Sprintf("%04d", t.Year()),
		"MM", fmt.Sprintf("%02d", int(t.Month())),
		"dd", fmt.Sprintf("%02d", t.Day()),
		"HH", fmt.Sprintf("%02d", t.Hour()),
		"mm", fmt.Sprintf("%02d", t.Minute()),
		"ss", fmt.Sprintf("%02d", t.Second()),
	)

	return r.Replace(pattern)
}
