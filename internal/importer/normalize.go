package importer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	gormModels "dispatch-app/backend/internal/models/gorm"
)

const isoDate = "2006-01-02"

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	timeOnlyPattern  = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

	// excelEpoch accounts for the 1900 leap-year bug.
	excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
)

// largest serial Excel accepts, 9999-12-31
const maxExcelSerial = 2958465

// Layouts tried for strings that are neither ISO nor slash dates.
var fallbackDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006/01/02",
	"2006/1/2",
	"02-Jan-2006",
	"2-Jan-2006",
	"02 Jan 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"Mon Jan 2 2006",
	"Mon, 02 Jan 2006",
	time.RFC1123,
	time.RFC1123Z,
}

// NormalizeDate converts a raw cell into YYYY-MM-DD. It accepts time.Time,
// Excel serials (any numeric type), ISO dates (returned unchanged), D/M/Y
// slash dates and a set of common textual layouts. A bare HH:MM is a time,
// not a date, and is rejected.
func NormalizeDate(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case time.Time:
		if val.IsZero() {
			return "", false
		}
		return val.Format(isoDate), true
	case *time.Time:
		if val == nil {
			return "", false
		}
		return NormalizeDate(*val)
	case float64:
		return excelSerialDate(val)
	case float32:
		return excelSerialDate(float64(val))
	case int:
		return excelSerialDate(float64(val))
	case int64:
		return excelSerialDate(float64(val))
	case string:
		t, ok := ParseDate(val)
		if !ok {
			return "", false
		}
		if isoDatePattern.MatchString(strings.TrimSpace(val)) {
			return strings.TrimSpace(val), true
		}
		return t.Format(isoDate), true
	default:
		return "", false
	}
}

// ParseDate parses a date string with the same policy as NormalizeDate.
// Slash dates are read day-first; when that is not a real calendar date the
// month-first reading is tried. The calendar view and both import profiles
// share this policy.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || timeOnlyPattern.MatchString(s) {
		return time.Time{}, false
	}

	if isoDatePattern.MatchString(s) {
		t, err := time.Parse(isoDate, s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	if m := slashDatePattern.FindStringSubmatch(s); m != nil {
		a, _ := strconv.Atoi(m[1])
		b, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := calendarDate(year, b, a); ok {
			return t, true
		}
		return calendarDate(year, a, b)
	}

	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// calendarDate rejects overflowing components instead of normalizing them.
func calendarDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

// excelSerialDate drops the fractional (time of day) part.
func excelSerialDate(serial float64) (string, bool) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 || serial > maxExcelSerial {
		return "", false
	}
	days := int(math.Floor(serial))
	return excelEpoch.AddDate(0, 0, days).Format(isoDate), true
}

// NormalizePriority maps free text onto the import priority scale. Rush-like
// words collapse into high; imports never produce urgent.
func NormalizePriority(p string) gormModels.JobPriority {
	switch strings.ToLower(strings.TrimSpace(p)) {
	case "urgent", "rush", "critical", "hot", "high":
		return gormModels.PriorityHigh
	case "low":
		return gormModels.PriorityLow
	default:
		return gormModels.PriorityNormal
	}
}

// NormalizeQuantity parses a non-negative integer, stripping whitespace and
// thousands separators. Anything else is absent, never zero.
func NormalizeQuantity(v any) (int, bool) {
	var s string
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		return nonNegative(val)
	case int64:
		return nonNegative(int(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return 0, false
		}
		return nonNegative(int(math.Trunc(val)))
	case string:
		s = val
	default:
		return 0, false
	}

	cleaned := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	if cleaned == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(cleaned); err == nil {
		return nonNegative(n)
	}
	// Decimal quantities truncate, "12.0" from a spreadsheet export is 12.
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return nonNegative(int(math.Trunc(f)))
}

func nonNegative(n int) (int, bool) {
	if n < 0 {
		return 0, false
	}
	return n, true
}

// cellString renders a raw cell as trimmed text.
func cellString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case time.Time:
		return val.Format(isoDate)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
