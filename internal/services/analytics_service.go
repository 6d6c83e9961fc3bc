package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/importer"
	gormModels "dispatch-app/backend/internal/models/gorm"
	"dispatch-app/backend/internal/query"

	"golang.org/x/sync/errgroup"
)

type JobLister interface {
	List(ctx context.Context) ([]gormModels.Job, error)
}

type DriverLister interface {
	List(ctx context.Context) ([]gormModels.Driver, error)
}

type ExportFormat string

const (
	ExportJSON ExportFormat = "json"
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ParseExportFormat defaults to json.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return ExportJSON, nil
	case ExportJSON, ExportCSV, ExportXLSX:
		return f, nil
	default:
		return "", invalid("format", fmt.Sprintf("unsupported export format %q", s))
	}
}

type Summary struct {
	Range                 string                 `json:"range"`
	Warehouse             string                 `json:"warehouse,omitempty"`
	KPIs                  query.FleetKPIs        `json:"kpis"`
	Drivers               []query.DriverMetrics  `json:"drivers"`
	StatusBreakdown       []query.Count          `json:"statusBreakdown"`
	PriorityDistribution  []query.Count          `json:"priorityDistribution"`
	WarehouseDistribution []query.Count          `json:"warehouseDistribution"`
	Quantities            query.QuantityAnalysis `json:"quantities"`
	Timeline              []query.TimelinePoint  `json:"timeline"`

	// Warehouses and Weeks cover every job, for filter dropdowns.
	Warehouses []string `json:"warehouses"`
	Weeks      []string `json:"weeks"`
}

// ReportOptions narrows the jobs a report covers. Range, Start and End
// resolve into the filter's creation window.
type ReportOptions struct {
	Filter query.JobFilter
	Range  string
	Start  string
	End    string
}

type AnalyticsService struct {
	jobs    JobLister
	drivers DriverLister
	clock   common.Clock
}

func NewAnalyticsService(jobs JobLister, drivers DriverLister, clock common.Clock) *AnalyticsService {
	return &AnalyticsService{
		jobs:    jobs,
		drivers: drivers,
		clock:   clock,
	}
}

// snapshot loads drivers and jobs concurrently.
func (s *AnalyticsService) snapshot(ctx context.Context) ([]gormModels.Driver, []gormModels.Job, error) {
	var (
		drivers []gormModels.Driver
		jobs    []gormModels.Job
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		drivers, err = s.drivers.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		jobs, err = s.jobs.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load analytics snapshot: %w", err)
	}
	return drivers, jobs, nil
}

// Summary computes the dashboard over jobs created inside rangeName and,
// when set, stored at warehouse.
func (s *AnalyticsService) Summary(ctx context.Context, rangeName, warehouse string) (*Summary, error) {
	from, to, err := query.CreatedWindow(rangeName, s.clock.Now(), "", "")
	if err != nil {
		return nil, invalid("range", err.Error())
	}
	drivers, all, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(warehouse, "all") {
		warehouse = ""
	}
	jobs := query.FilterJobs(all, query.JobFilter{Warehouse: warehouse, CreatedFrom: from, CreatedTo: to})

	if rangeName == "" {
		rangeName = "all"
	}
	return &Summary{
		Range:                 rangeName,
		Warehouse:             warehouse,
		KPIs:                  query.KPIs(drivers, jobs),
		Drivers:               query.PerDriverMetrics(drivers, jobs),
		StatusBreakdown:       query.StatusBreakdown(jobs),
		PriorityDistribution:  query.PriorityDistribution(jobs),
		WarehouseDistribution: query.WarehouseDistribution(jobs),
		Quantities:            query.Quantities(jobs),
		Timeline:              query.Timeline(jobs),
		Warehouses:            query.Warehouses(all),
		Weeks:                 query.EtaWeeks(all),
	}, nil
}

func (s *AnalyticsService) Report(ctx context.Context, rt query.ReportType, opts ReportOptions) (query.Table, error) {
	from, to, err := query.CreatedWindow(opts.Range, s.clock.Now(), opts.Start, opts.End)
	if err != nil {
		return query.Table{}, invalid("range", err.Error())
	}
	drivers, jobs, err := s.snapshot(ctx)
	if err != nil {
		return query.Table{}, err
	}

	filter := opts.Filter
	filter.CreatedFrom, filter.CreatedTo = from, to
	return query.BuildReport(rt, drivers, query.FilterJobs(jobs, filter))
}

// Export writes a report table as csv or a single-sheet workbook.
func (s *AnalyticsService) Export(w io.Writer, table query.Table, format ExportFormat) error {
	switch format {
	case ExportCSV:
		return importer.WriteCSV(w, table.Records())
	case ExportXLSX:
		return importer.WriteXLSX(w, string(table.Report), table.Records())
	default:
		return invalid("format", fmt.Sprintf("%s is not a file export format", format))
	}
}

// Calendar groups the jobs of month ("YYYY-MM") by day.
func (s *AnalyticsService) Calendar(ctx context.Context, month string) ([]query.CalendarDay, error) {
	m, err := query.ParseMonth(month)
	if err != nil {
		return nil, invalid("month", err.Error())
	}
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.CalendarMonth(jobs, m), nil
}
