package query

import (
	"fmt"
	"sort"
	"time"

	"dispatch-app/backend/internal/importer"
	gormModels "dispatch-app/backend/internal/models/gorm"
)

type CalendarDay struct {
	Date string           `json:"date"`
	Jobs []gormModels.Job `json:"jobs"`
}

// CalendarKey is the day a job shows on: scheduledAt, else eta, else
// createdAt. A job whose chosen value does not parse has no day.
func CalendarKey(job *gormModels.Job) (string, bool) {
	switch {
	case job.ScheduledAt != nil:
		return dayKey(*job.ScheduledAt), true
	case job.Eta != nil && *job.Eta != "":
		t, ok := importer.ParseDate(*job.Eta)
		if !ok {
			return "", false
		}
		return t.Format("2006-01-02"), true
	default:
		return dayKey(job.CreatedAt), true
	}
}

// ParseMonth reads "YYYY-MM" as the first day of that month, UTC.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, want YYYY-MM", s)
	}
	return t, nil
}

// CalendarMonth groups the jobs falling in month by day, in date order.
// Days without jobs are omitted.
func CalendarMonth(jobs []gormModels.Job, month time.Time) []CalendarDay {
	prefix := month.Format("2006-01")
	days := map[string]*CalendarDay{}
	for i := range jobs {
		key, ok := CalendarKey(&jobs[i])
		if !ok || key[:7] != prefix {
			continue
		}
		d, ok := days[key]
		if !ok {
			d = &CalendarDay{Date: key}
			days[key] = d
		}
		d.Jobs = append(d.Jobs, jobs[i])
	}

	out := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
