package query

import (
	"testing"
	"time"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC)

func sp(s string) *string { return &s }
func ip(n int) *int       { return &n }

type jobOpt func(*gormModels.Job)

func job(id string, opts ...jobOpt) gormModels.Job {
	j := gormModels.Job{
		ID:        id,
		Ref:       "REF-" + id,
		Customer:  "Acme",
		Pickup:    "K58",
		Dropoff:   "Cape Town",
		Priority:  gormModels.PriorityNormal,
		Status:    gormModels.JobStatusPending,
		CreatedAt: baseTime,
	}
	for _, o := range opts {
		o(&j)
	}
	return j
}

func withStatus(s gormModels.JobStatus) jobOpt     { return func(j *gormModels.Job) { j.Status = s } }
func withPriority(p gormModels.JobPriority) jobOpt { return func(j *gormModels.Job) { j.Priority = p } }
func withDriver(id string) jobOpt                  { return func(j *gormModels.Job) { j.DriverID = sp(id) } }
func withWarehouse(w string) jobOpt                { return func(j *gormModels.Job) { j.Warehouse = sp(w) } }
func withEta(e string) jobOpt                      { return func(j *gormModels.Job) { j.Eta = sp(e) } }
func withPallets(n int) jobOpt                     { return func(j *gormModels.Job) { j.Pallets = ip(n) } }
func withCreated(t time.Time) jobOpt               { return func(j *gormModels.Job) { j.CreatedAt = t } }
func withFlags(tb, op, coa bool) jobOpt {
	return func(j *gormModels.Job) {
		j.TransporterBooked, j.OrderPicked, j.CoaAvailable = tb, op, coa
		j.RefreshReadiness()
	}
}

func ids(jobs []gormModels.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func fixture() []gormModels.Job {
	return []gormModels.Job{
		job("1", withStatus(gormModels.JobStatusDelivered), withPriority(gormModels.PriorityUrgent), withDriver("d1"), withWarehouse("K58"), withEta("2025-10-06")),
		job("2", withStatus(gormModels.JobStatusDelivered), withPriority(gormModels.PriorityLow), withDriver("d2"), withEta("2025-10-13")),
		job("3", withStatus(gormModels.JobStatusPending), withPriority(gormModels.PriorityUrgent), withWarehouse("K63"), withFlags(true, false, false)),
		job("4", withStatus(gormModels.JobStatusException), withPriority(gormModels.PriorityHigh), withDriver("d1"), withFlags(true, true, true)),
		job("5", withStatus(gormModels.JobStatusAssigned), withPriority(gormModels.PriorityUrgent), withDriver("d1"), withEta("05/10/2025")),
	}
}

func TestFilterJobs_SingleCriteria(t *testing.T) {
	jobs := fixture()

	assert.Equal(t, []string{"1", "2"}, ids(FilterJobs(jobs, JobFilter{Statuses: []gormModels.JobStatus{gormModels.JobStatusDelivered}})))
	assert.Equal(t, []string{"1", "3", "5"}, ids(FilterJobs(jobs, JobFilter{Priorities: []gormModels.JobPriority{gormModels.PriorityUrgent}})))
	assert.Equal(t, []string{"1", "4", "5"}, ids(FilterJobs(jobs, JobFilter{DriverID: "d1"})))
	assert.Equal(t, []string{"3"}, ids(FilterJobs(jobs, JobFilter{Warehouse: "K63"})))
	assert.Equal(t, []string{"4"}, ids(FilterJobs(jobs, JobFilter{Search: "ref-4"})))
	assert.Len(t, FilterJobs(jobs, JobFilter{}), 5, "no criteria keeps everything")
}

func TestFilterJobs_Conjunction(t *testing.T) {
	jobs := fixture()
	byStatus := JobFilter{Statuses: []gormModels.JobStatus{gormModels.JobStatusDelivered, gormModels.JobStatusAssigned}}
	byPriority := JobFilter{Priorities: []gormModels.JobPriority{gormModels.PriorityUrgent}}
	both := JobFilter{Statuses: byStatus.Statuses, Priorities: byPriority.Priorities}

	a := ids(FilterJobs(jobs, byStatus))
	b := ids(FilterJobs(jobs, byPriority))
	var intersection []string
	for _, x := range a {
		for _, y := range b {
			if x == y {
				intersection = append(intersection, x)
			}
		}
	}
	assert.Equal(t, intersection, ids(FilterJobs(jobs, both)))
	assert.Equal(t, []string{"1", "5"}, intersection)
}

func TestWorkflowPartition(t *testing.T) {
	for _, flags := range [][3]bool{
		{false, false, false}, {true, false, false}, {false, true, false}, {false, false, true},
		{true, true, false}, {true, false, true}, {false, true, true}, {true, true, true},
	} {
		j := job("x", withFlags(flags[0], flags[1], flags[2]))
		assert.Equal(t, flags[0] && flags[1] && flags[2], j.ReadyForDispatch)

		matches := 0
		for _, w := range []WorkflowState{WorkflowReady, WorkflowInProgress, WorkflowNotStarted} {
			if (JobFilter{Workflow: w}).Match(&j) {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "flags %v", flags)
	}

	jobs := fixture()
	assert.Equal(t, []string{"4"}, ids(FilterJobs(jobs, JobFilter{Workflow: WorkflowReady})))
	assert.Equal(t, []string{"3"}, ids(FilterJobs(jobs, JobFilter{Workflow: WorkflowInProgress})))
	assert.Equal(t, []string{"1", "2", "5"}, ids(FilterJobs(jobs, JobFilter{Workflow: WorkflowNotStarted})))
}

func TestWeekBucket(t *testing.T) {
	// 2025-01-01 is a Wednesday, so week 1 runs Jan 1-4
	assert.Equal(t, "2025-W01", WeekBucket(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-W01", WeekBucket(time.Date(2025, 1, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-W02", WeekBucket(time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-W41", WeekBucket(time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Week 41, 2025", WeekLabel(time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC)))

	jobs := fixture()
	assert.Equal(t, []string{"1", "5"}, ids(FilterJobs(jobs, JobFilter{Week: "2025-W41"})), "slash etas use the import date policy")
	assert.Equal(t, []string{"2025-W42", "2025-W41"}, EtaWeeks(jobs))
}

func TestCreatedWindow(t *testing.T) {
	now := time.Date(2025, 10, 31, 15, 0, 0, 0, time.UTC)
	jobs := []gormModels.Job{
		job("old", withCreated(now.AddDate(0, 0, -40))),
		job("recent", withCreated(now.AddDate(0, 0, -3))),
		job("today", withCreated(now.Add(-time.Hour))),
	}

	from, to, err := CreatedWindow("30d", now, "", "")
	require.NoError(t, err)
	assert.Nil(t, to)
	assert.Equal(t, []string{"recent", "today"}, ids(FilterJobs(jobs, JobFilter{CreatedFrom: from, CreatedTo: to})))

	from, _, err = CreatedWindow("today", now, "", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"today"}, ids(FilterJobs(jobs, JobFilter{CreatedFrom: from})))

	from, to, err = CreatedWindow("custom", now, "2025-10-28", "2025-10-28")
	require.NoError(t, err)
	assert.Equal(t, []string{"recent"}, ids(FilterJobs(jobs, JobFilter{CreatedFrom: from, CreatedTo: to})), "end day is inclusive")

	from, to, err = CreatedWindow("all", now, "", "")
	require.NoError(t, err)
	assert.Nil(t, from)
	assert.Nil(t, to)

	_, _, err = CreatedWindow("fortnight", now, "", "")
	assert.ErrorIs(t, err, ErrInvalidRange)
	_, _, err = CreatedWindow("custom", now, "2025-10-28", "")
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestSortJobs(t *testing.T) {
	jobs := fixture()

	assert.Equal(t, []string{"1", "3", "5", "4", "2"}, ids(SortJobs(jobs, JobSort{Field: SortPriority, Desc: true})), "urgent ties keep input order")
	assert.Equal(t, []string{"2", "4", "1", "3", "5"}, ids(SortJobs(jobs, JobSort{Field: SortPriority})))
	assert.Equal(t, []string{"4", "3", "5", "1", "2"}, ids(SortJobs(jobs, JobSort{Field: SortStatus, Desc: true})))

	// missing etas last both ways
	assert.Equal(t, []string{"5", "1", "2", "3", "4"}, ids(SortJobs(jobs, JobSort{Field: SortEta})))
	assert.Equal(t, []string{"2", "1", "5", "3", "4"}, ids(SortJobs(jobs, JobSort{Field: SortEta, Desc: true})))

	assert.Equal(t, "1", jobs[0].ID, "input untouched")
}

func TestSortJobs_CreatedAtAndStrings(t *testing.T) {
	jobs := []gormModels.Job{
		job("a", withCreated(baseTime.Add(2*time.Hour))),
		job("b", withCreated(baseTime)),
		job("c", withCreated(baseTime.Add(time.Hour))),
	}
	jobs[0].Customer, jobs[1].Customer, jobs[2].Customer = "beta", "Alpha", "alpha"

	assert.Equal(t, []string{"a", "c", "b"}, ids(SortJobs(jobs, DefaultJobSort)))
	assert.Equal(t, []string{"b", "c", "a"}, ids(SortJobs(jobs, JobSort{Field: SortCreatedAt})))

	sorted := ids(SortJobs(jobs, JobSort{Field: SortCustomer}))
	assert.Equal(t, "a", sorted[2], "collation ignores case for the primary order")

	f, err := ParseSortField("CREATEDAT")
	require.NoError(t, err)
	assert.Equal(t, SortCreatedAt, f)
	_, err = ParseSortField("driver")
	assert.Error(t, err)
}

func TestFilterDrivers(t *testing.T) {
	drivers := []gormModels.Driver{
		{ID: "d1", Name: "Sipho Dlamini", Callsign: "TRK-1", Location: "Durban"},
		{ID: "d2", Name: "Anna Botha", Callsign: "TRK-2", Location: "Cape Town", Email: sp("anna@fleet.example")},
	}
	assert.Len(t, FilterDrivers(drivers, ""), 2)
	assert.Equal(t, "d2", FilterDrivers(drivers, "FLEET.example")[0].ID)
	assert.Equal(t, "d1", FilterDrivers(drivers, "durban")[0].ID)
	assert.Empty(t, FilterDrivers(drivers, "nobody"))
}
