package columns

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order when coercing string cells to dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// FormatValue renders a cell value for display, search, and group
// keys. Whole floats print without a fractional part so JSON-decoded
// integers read naturally.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return FormatValue(float64(val))
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func compareText(a, b any) int {
	return strings.Compare(
		strings.ToLower(FormatValue(a)),
		strings.ToLower(FormatValue(b)),
	)
}

// toNumber coerces a cell value to float64. JSON decoding yields
// float64 for all numbers, but rows built in code may carry ints.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// compareNumbers orders numerically; values that do not coerce sort
// after those that do.
func compareNumbers(a, b any) int {
	na, oka := toNumber(a)
	nb, okb := toNumber(b)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return 1
	case !okb:
		return -1
	case na < nb:
		return -1
	case na > nb:
		return 1
	default:
		return 0
	}
}

// toTime coerces a cell value to a time. Strings are parsed with a
// small set of common layouts.
func toTime(v any) (time.Time, bool) {
	switch d := v.(type) {
	case time.Time:
		return d, true
	case string:
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(d)); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// compareDates orders chronologically; values that do not coerce sort
// after those that do.
func compareDates(a, b any) int {
	ta, oka := toTime(a)
	tb, okb := toTime(b)
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return 1
	case !okb:
		return -1
	case ta.Before(tb):
		return -1
	case ta.After(tb):
		return 1
	default:
		return 0
	}
}
