package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/models/dtos"
	gormModels "dispatch-app/backend/internal/models/gorm"
	"dispatch-app/backend/internal/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type failingLister struct{}

func (failingLister) List(context.Context) ([]gormModels.Driver, error) {
	return nil, errors.New("connection reset")
}

// seedAnalytics stores two drivers and four jobs, one created 40 days ago.
func seedAnalytics(t *testing.T, f *fixture) (*gormModels.Driver, *gormModels.Driver) {
	t.Helper()
	ctx := context.Background()
	sipho := f.driver(t, "TRK-1")
	anna := f.driver(t, "TRK-2")

	delivered, err := f.jobs.Create(ctx, &dtos.CreateJobRequest{Ref: "A", Customer: "Acme", Warehouse: strPtr("K58"), Pallets: intPtr(10), DriverID: &sipho.ID})
	require.NoError(t, err)
	_, err = f.jobs.ChangeStatus(ctx, delivered.ID, &dtos.StatusChangeRequest{Status: gormModels.JobStatusDelivered})
	require.NoError(t, err)

	_, err = f.jobs.Create(ctx, &dtos.CreateJobRequest{Ref: "B", Customer: "Beta", Warehouse: strPtr("K63"), Pallets: intPtr(5), DriverID: &sipho.ID, Eta: strPtr("2025-10-20")})
	require.NoError(t, err)
	_, err = f.jobs.Create(ctx, &dtos.CreateJobRequest{
		Ref: "C", Customer: "Acme", Status: gormModels.JobStatusException, ExceptionReason: strPtr("truck broke down"),
	})
	require.NoError(t, err)

	old := gormModels.Job{
		ID: "old", Ref: "OLD", Customer: "Acme", Priority: gormModels.PriorityLow, Status: gormModels.JobStatusPending,
		CreatedAt: testNow.AddDate(0, 0, -40), Warehouse: strPtr("K58"),
	}
	require.NoError(t, f.jobRepo.Create(ctx, &old))
	return sipho, anna
}

func TestAnalyticsService_Summary(t *testing.T) {
	f := newFixture(t)
	sipho, _ := seedAnalytics(t, f)
	svc := NewAnalyticsService(f.jobRepo, f.driverRepo, f.clock)
	ctx := context.Background()

	all, err := svc.Summary(ctx, "all", "")
	require.NoError(t, err)
	assert.Equal(t, 4, all.KPIs.TotalJobs)

	recent, err := svc.Summary(ctx, "30d", "")
	require.NoError(t, err)
	assert.Equal(t, "30d", recent.Range)
	assert.Equal(t, query.FleetKPIs{
		TotalJobs: 3, DeliveredJobs: 1, DeliveryRate: 33, ExceptionsCount: 1, ExceptionRate: 33, ActiveTransporters: 2,
	}, recent.KPIs)
	require.Len(t, recent.Drivers, 1, "drivers without jobs are left out")
	assert.Equal(t, sipho.ID, recent.Drivers[0].DriverID)
	assert.Equal(t, 15, recent.Drivers[0].PalletsLoaded)
	assert.Equal(t, 75, recent.Drivers[0].UtilizationRate)
	assert.Equal(t, []query.Count{{Key: "K58", Count: 1}, {Key: "K63", Count: 1}, {Key: "Unknown", Count: 1}}, recent.WarehouseDistribution)
	assert.Equal(t, []string{"K58", "K63"}, recent.Warehouses)
	assert.Equal(t, []string{"2025-W43"}, recent.Weeks)
	require.Len(t, recent.Timeline, 1)
	assert.Equal(t, query.TimelinePoint{Date: "2025-10-14", Created: 3, Delivered: 1}, recent.Timeline[0])

	k58, err := svc.Summary(ctx, "", "K58")
	require.NoError(t, err)
	assert.Equal(t, "all", k58.Range)
	assert.Equal(t, 2, k58.KPIs.TotalJobs)

	_, err = svc.Summary(ctx, "forever", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnalyticsService_ReportAndExport(t *testing.T) {
	f := newFixture(t)
	seedAnalytics(t, f)
	svc := NewAnalyticsService(f.jobRepo, f.driverRepo, f.clock)
	ctx := context.Background()

	table, err := svc.Report(ctx, query.ReportExceptions, ReportOptions{Range: "week"})
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "truck broke down", table.Rows[0][6])

	table, err = svc.Report(ctx, query.ReportCustomerAnalysis, ReportOptions{
		Filter: query.JobFilter{Statuses: []gormModels.JobStatus{gormModels.JobStatusPending, gormModels.JobStatusAssigned}},
	})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Beta", "1", "0", "0", "0"}, {"Acme", "1", "0", "1", "0"}}, table.Rows)

	_, err = svc.Report(ctx, query.ReportJobSummary, ReportOptions{Range: "custom", Start: "2025-10-14"})
	assert.ErrorIs(t, err, ErrValidation)

	var csvOut bytes.Buffer
	require.NoError(t, svc.Export(&csvOut, table, ExportCSV))
	assert.Equal(t, "Customer,Total Jobs,Delivered,Pending,Exceptions\nBeta,1,0,0,0\nAcme,1,0,1,0\n", csvOut.String())

	var xlsxOut bytes.Buffer
	require.NoError(t, svc.Export(&xlsxOut, table, ExportXLSX))
	wb, err := excelize.OpenReader(&xlsxOut)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(string(query.ReportCustomerAnalysis))
	require.NoError(t, err)
	assert.Equal(t, table.Records(), rows)

	assert.ErrorIs(t, svc.Export(&csvOut, table, ExportJSON), ErrValidation)

	format, err := ParseExportFormat("")
	require.NoError(t, err)
	assert.Equal(t, ExportJSON, format)
	_, err = ParseExportFormat("pdf")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnalyticsService_Calendar(t *testing.T) {
	f := newFixture(t)
	seedAnalytics(t, f)
	svc := NewAnalyticsService(f.jobRepo, f.driverRepo, f.clock)
	ctx := context.Background()

	days, err := svc.Calendar(ctx, "2025-10")
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2025-10-14", days[0].Date)
	assert.Len(t, days[0].Jobs, 2)
	assert.Equal(t, "2025-10-20", days[1].Date)
	assert.Equal(t, "B", days[1].Jobs[0].Ref)

	_, err = svc.Calendar(ctx, "10-2025")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAnalyticsService_SnapshotError(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalyticsService(f.jobRepo, failingLister{}, common.FixedClock{T: time.Now()})

	_, err := svc.Summary(context.Background(), "all", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
