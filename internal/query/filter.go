package query

import (
	"fmt"
	"strings"
	"time"

	"dispatch-app/backend/internal/importer"
	gormModels "dispatch-app/backend/internal/models/gorm"
)

type WorkflowState string

const (
	WorkflowReady      WorkflowState = "ready"
	WorkflowInProgress WorkflowState = "in-progress"
	WorkflowNotStarted WorkflowState = "not-started"
)

func (w WorkflowState) Valid() bool {
	return w == WorkflowReady || w == WorkflowInProgress || w == WorkflowNotStarted
}

// WorkflowOf places a job in exactly one workflow bucket.
func WorkflowOf(job *gormModels.Job) WorkflowState {
	switch {
	case job.ReadyForDispatch:
		return WorkflowReady
	case job.AnyWorkflowStep():
		return WorkflowInProgress
	default:
		return WorkflowNotStarted
	}
}

// JobFilter is a conjunction of optional criteria. Zero values are unset.
type JobFilter struct {
	Statuses   []gormModels.JobStatus
	Priorities []gormModels.JobPriority
	DriverID   string
	Warehouse  string
	// Week is an ETA bucket such as "2025-W41".
	Week     string
	Search   string
	Workflow WorkflowState

	// CreatedFrom and CreatedTo bound CreatedAt, both inclusive.
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

func (f JobFilter) Match(job *gormModels.Job) bool {
	if len(f.Statuses) > 0 && !contains(f.Statuses, job.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !contains(f.Priorities, job.Priority) {
		return false
	}
	if f.DriverID != "" && job.DriverRef() != f.DriverID {
		return false
	}
	if f.Warehouse != "" && job.WarehouseName() != f.Warehouse {
		return false
	}
	if f.Week != "" {
		week, ok := EtaWeek(job)
		if !ok || week != f.Week {
			return false
		}
	}
	if f.Search != "" && !matchesSearch(job, f.Search) {
		return false
	}
	if f.Workflow != "" && WorkflowOf(job) != f.Workflow {
		return false
	}
	if f.CreatedFrom != nil && job.CreatedAt.Before(*f.CreatedFrom) {
		return false
	}
	if f.CreatedTo != nil && job.CreatedAt.After(*f.CreatedTo) {
		return false
	}
	return true
}

// FilterJobs returns the jobs matching every set criterion, in input order.
func FilterJobs(jobs []gormModels.Job, f JobFilter) []gormModels.Job {
	out := make([]gormModels.Job, 0, len(jobs))
	for i := range jobs {
		if f.Match(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}

func matchesSearch(job *gormModels.Job, search string) bool {
	notes := ""
	if job.Notes != nil {
		notes = *job.Notes
	}
	text := strings.ToLower(strings.Join([]string{job.Ref, job.Customer, job.Pickup, job.Dropoff, notes}, " "))
	return strings.Contains(text, strings.ToLower(search))
}

// WeekBucket labels the calendar day of t as "<year>-W<nn>". Week 1 is the
// partial week holding January 1st and weeks start on Sunday.
func WeekBucket(t time.Time) string {
	year, week := weekNumber(t)
	return fmt.Sprintf("%d-W%02d", year, week)
}

// WeekLabel is the human-readable form used in reports.
func WeekLabel(t time.Time) string {
	year, week := weekNumber(t)
	return fmt.Sprintf("Week %d, %d", week, year)
}

func weekNumber(t time.Time) (int, int) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	jan1 := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(day.Sub(jan1).Hours() / 24)
	n := days + int(jan1.Weekday()) + 1
	return t.Year(), (n + 6) / 7
}

// EtaWeek buckets a job by its ETA; jobs without a parseable ETA have none.
func EtaWeek(job *gormModels.Job) (string, bool) {
	if job.Eta == nil {
		return "", false
	}
	t, ok := importer.ParseDate(*job.Eta)
	if !ok {
		return "", false
	}
	return WeekBucket(t), true
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
