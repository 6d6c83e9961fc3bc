package services

import (
	"fmt"
	"testing"
	"time"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/db"
	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/metrics"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 10, 14, 9, 30, 0, 0, time.UTC)

// seqIDs hands out id-1, id-2, ...
type seqIDs struct{ n int }

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type fixture struct {
	jobRepo    *repositories.JobRepo
	driverRepo *repositories.DriverRepo
	loadRepo   *repositories.DriverLoadRepo
	metrics    *metrics.MetricsRegistry
	clock      common.FixedClock
	ids        *seqIDs

	jobs    *JobService
	drivers *DriverService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb, err := db.InitSQLiteORM(db.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))
	sdb, err := db.WrapGORM(gdb, "sqlite3")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sdb.Close() })

	f := &fixture{
		jobRepo:    repositories.NewJobRepo(gdb),
		driverRepo: repositories.NewDriverRepo(gdb),
		loadRepo:   repositories.NewDriverLoadRepo(sdb),
		metrics:    metrics.NewMetricsRegistry(),
		clock:      common.FixedClock{T: testNow},
		ids:        &seqIDs{},
	}
	f.jobs = NewJobService(f.jobRepo, f.driverRepo, f.clock, f.ids, f.metrics)
	f.drivers = NewDriverService(f.driverRepo, f.loadRepo, f.ids)
	return f
}

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }
func boolPtr(b bool) *bool    { return &b }
