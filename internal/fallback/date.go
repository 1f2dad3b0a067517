package fallback

import (
	"regexp"
	"strconv"
	"time"
)

var dateFormats = []struct {
	re      *regexp.Regexp
	y, m, d int // capture group index per component
}{
	{regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`), 1, 2, 3},     // YYYY-MM-DD
	{regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`), 3, 1, 2}, // MM/DD/YYYY
	{regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})$`), 3, 2, 1},     // DD-MM-YYYY
}

// parseDate normalizes the accepted date shapes to a midnight-UTC time,
// rejecting out-of-range components. The boolean is false when nothing
// parsed; the caller drops the line.
func parseDate(s string) (time.Time, bool) {
	for _, f := range dateFormats {
		groups := f.re.FindStringSubmatch(s)
		if groups == nil {
			continue
		}
		year, _ := strconv.Atoi(groups[f.y])
		month, _ := strconv.Atoi(groups[f.m])
		day, _ := strconv.Atoi(groups[f.d])

		if year < 1900 || year > 2100 || month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day {
			// e.g. February 31 rolled over into March
			continue
		}
		return t, true
	}
	return time.Time{}, false
}
