package query

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dispatch-app/backend/internal/importer"
	gormModels "dispatch-app/backend/internal/models/gorm"
)

var ErrUnknownReport = errors.New("unknown report")

type ReportType string

const (
	ReportJobSummary        ReportType = "job-summary"
	ReportDriverPerformance ReportType = "driver-performance"
	ReportCustomerAnalysis  ReportType = "customer-analysis"
	ReportExceptions        ReportType = "exceptions"
	ReportStatusBreakdown   ReportType = "status-breakdown"
	ReportWarehouseAnalysis ReportType = "warehouse-analysis"
)

var reportAliases = map[string]ReportType{
	"exception-report":      ReportExceptions,
	"delivery-performance":  ReportStatusBreakdown,
	"warehouse-utilization": ReportWarehouseAnalysis,
}

var ReportTypes = []ReportType{
	ReportJobSummary, ReportDriverPerformance, ReportCustomerAnalysis,
	ReportExceptions, ReportStatusBreakdown, ReportWarehouseAnalysis,
}

func ParseReportType(s string) (ReportType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if rt, ok := reportAliases[s]; ok {
		return rt, nil
	}
	for _, rt := range ReportTypes {
		if string(rt) == s {
			return rt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownReport, s)
}

// Table is a rendered report; every cell is display text.
type Table struct {
	Report  ReportType `json:"report"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Records returns the header row followed by the data rows, for export.
func (t Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	out = append(out, t.Columns)
	return append(out, t.Rows...)
}

const (
	notAvailable = "N/A"
	unassigned   = "Unassigned"
	reportTime   = "2006-01-02 15:04"
)

// BuildReport renders one report over already filtered jobs.
func BuildReport(rt ReportType, drivers []gormModels.Driver, jobs []gormModels.Job) (Table, error) {
	names := make(map[string]string, len(drivers))
	for _, d := range drivers {
		names[d.ID] = d.Name
	}
	transporter := func(job *gormModels.Job) string {
		if job.DriverID == nil {
			return unassigned
		}
		if n, ok := names[*job.DriverID]; ok {
			return n
		}
		return *job.DriverID
	}

	switch rt {
	case ReportJobSummary:
		return jobSummary(jobs, transporter), nil
	case ReportDriverPerformance:
		return driverPerformance(drivers, jobs), nil
	case ReportCustomerAnalysis:
		return customerAnalysis(jobs), nil
	case ReportExceptions:
		return exceptions(jobs, transporter), nil
	case ReportStatusBreakdown:
		return statusReport(jobs), nil
	case ReportWarehouseAnalysis:
		return warehouseAnalysis(jobs), nil
	default:
		return Table{}, fmt.Errorf("%w: %q", ErrUnknownReport, rt)
	}
}

func jobSummary(jobs []gormModels.Job, transporter func(*gormModels.Job) string) Table {
	t := Table{
		Report:  ReportJobSummary,
		Columns: []string{"Reference", "Customer", "Status", "Priority", "Pickup", "Dropoff", "Warehouse", "Transporter", "Created Date", "ETA Date", "ETA Week"},
		Rows:    [][]string{},
	}
	for i := range jobs {
		job := &jobs[i]
		eta, week := etaCells(job)
		t.Rows = append(t.Rows, []string{
			job.Ref, job.Customer, string(job.Status), string(job.Priority), job.Pickup, job.Dropoff,
			orNA(job.WarehouseName()), transporter(job), job.CreatedAt.UTC().Format(reportTime), eta, week,
		})
	}
	return t
}

func driverPerformance(drivers []gormModels.Driver, jobs []gormModels.Job) Table {
	t := Table{
		Report:  ReportDriverPerformance,
		Columns: []string{"Driver", "Callsign", "Status", "Total Jobs", "Completed", "In Progress", "Completion Rate", "Location"},
		Rows:    [][]string{},
	}
	byDriver := map[string][]*gormModels.Job{}
	for i := range jobs {
		if id := jobs[i].DriverRef(); id != "" {
			byDriver[id] = append(byDriver[id], &jobs[i])
		}
	}
	for _, d := range drivers {
		var completed, inProgress int
		for _, job := range byDriver[d.ID] {
			switch job.Status {
			case gormModels.JobStatusDelivered:
				completed++
			case gormModels.JobStatusAssigned, gormModels.JobStatusEnRoute:
				inProgress++
			}
		}
		total := len(byDriver[d.ID])
		t.Rows = append(t.Rows, []string{
			d.Name, d.Callsign, string(d.Status), strconv.Itoa(total), strconv.Itoa(completed),
			strconv.Itoa(inProgress), rate(completed, total), d.Location,
		})
	}
	return t
}

type tally struct {
	key        string
	total      int
	delivered  int
	inProgress int
	pending    int
	exceptions int
}

func (t *tally) add(status gormModels.JobStatus) {
	t.total++
	switch status {
	case gormModels.JobStatusDelivered:
		t.delivered++
	case gormModels.JobStatusAssigned, gormModels.JobStatusEnRoute:
		t.inProgress++
	case gormModels.JobStatusPending:
		t.pending++
	case gormModels.JobStatusException:
		t.exceptions++
	}
}

// tallyBy groups jobs by key, keeping first-seen order.
func tallyBy(jobs []gormModels.Job, key func(*gormModels.Job) string) []*tally {
	index := map[string]*tally{}
	var out []*tally
	for i := range jobs {
		k := key(&jobs[i])
		t, ok := index[k]
		if !ok {
			t = &tally{key: k}
			index[k] = t
			out = append(out, t)
		}
		t.add(jobs[i].Status)
	}
	return out
}

func customerAnalysis(jobs []gormModels.Job) Table {
	t := Table{
		Report:  ReportCustomerAnalysis,
		Columns: []string{"Customer", "Total Jobs", "Delivered", "Pending", "Exceptions"},
		Rows:    [][]string{},
	}
	for _, c := range tallyBy(jobs, func(j *gormModels.Job) string { return j.Customer }) {
		t.Rows = append(t.Rows, []string{c.key, strconv.Itoa(c.total), strconv.Itoa(c.delivered), strconv.Itoa(c.pending), strconv.Itoa(c.exceptions)})
	}
	return t
}

func warehouseAnalysis(jobs []gormModels.Job) Table {
	t := Table{
		Report:  ReportWarehouseAnalysis,
		Columns: []string{"Warehouse", "Total Jobs", "Delivered", "In Progress", "Pending", "Exceptions"},
		Rows:    [][]string{},
	}
	key := func(j *gormModels.Job) string {
		if w := j.WarehouseName(); w != "" {
			return w
		}
		return unassigned
	}
	for _, w := range tallyBy(jobs, key) {
		t.Rows = append(t.Rows, []string{
			w.key, strconv.Itoa(w.total), strconv.Itoa(w.delivered),
			strconv.Itoa(w.inProgress), strconv.Itoa(w.pending), strconv.Itoa(w.exceptions),
		})
	}
	return t
}

func exceptions(jobs []gormModels.Job, transporter func(*gormModels.Job) string) Table {
	t := Table{
		Report:  ReportExceptions,
		Columns: []string{"Reference", "Customer", "Priority", "Pickup", "Dropoff", "Transporter", "Reason", "Notes", "Created Date", "ETA Date", "ETA Week"},
		Rows:    [][]string{},
	}
	for i := range jobs {
		job := &jobs[i]
		if job.Status != gormModels.JobStatusException {
			continue
		}
		notes := "No notes"
		if job.Notes != nil && *job.Notes != "" {
			notes = *job.Notes
		}
		eta, week := etaCells(job)
		t.Rows = append(t.Rows, []string{
			job.Ref, job.Customer, string(job.Priority), job.Pickup, job.Dropoff, transporter(job),
			orNA(deref(job.ExceptionReason)), notes, job.CreatedAt.UTC().Format(reportTime), eta, week,
		})
	}
	return t
}

func statusReport(jobs []gormModels.Job) Table {
	t := Table{
		Report:  ReportStatusBreakdown,
		Columns: []string{"Status", "Count", "Percentage"},
		Rows:    [][]string{},
	}
	for _, c := range StatusBreakdown(jobs) {
		t.Rows = append(t.Rows, []string{c.Key, strconv.Itoa(c.Count), rate(c.Count, len(jobs))})
	}
	return t
}

func etaCells(job *gormModels.Job) (string, string) {
	if job.Eta == nil || *job.Eta == "" {
		return notAvailable, notAvailable
	}
	t, ok := importer.ParseDate(*job.Eta)
	if !ok {
		return *job.Eta, notAvailable
	}
	return *job.Eta, WeekLabel(t)
}

func rate(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(n)/float64(total)*100)
}

func orNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
