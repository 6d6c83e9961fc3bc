package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch-app/backend/internal/importer"
)

var ErrInvalidRange = errors.New("invalid date range")

const day = 24 * time.Hour

// rolling windows ending now
var rollingRanges = map[string]time.Duration{
	"7d":      7 * day,
	"week":    7 * day,
	"30d":     30 * day,
	"month":   30 * day,
	"90d":     90 * day,
	"quarter": 90 * day,
	"year":    365 * day,
}

// CreatedWindow resolves a named range into CreatedAt bounds for a JobFilter.
// "all" and "" are unbounded, "today" starts at UTC midnight, and "custom"
// needs start and end dates, the end day included in full.
func CreatedWindow(name string, now time.Time, start, end string) (*time.Time, *time.Time, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "", "all":
		return nil, nil, nil
	case "today":
		from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return &from, nil, nil
	case "custom":
		from, ok := importer.ParseDate(start)
		if !ok {
			return nil, nil, fmt.Errorf("%w: start %q", ErrInvalidRange, start)
		}
		until, ok := importer.ParseDate(end)
		if !ok {
			return nil, nil, fmt.Errorf("%w: end %q", ErrInvalidRange, end)
		}
		if until.Before(from) {
			return nil, nil, fmt.Errorf("%w: end before start", ErrInvalidRange)
		}
		until = until.Add(day - time.Nanosecond)
		return &from, &until, nil
	}

	window, ok := rollingRanges[name]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidRange, name)
	}
	from := now.Add(-window)
	return &from, nil, nil
}
