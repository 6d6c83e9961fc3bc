package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch-app/backend/internal/db"
	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()
	gdb, err := db.InitSQLiteORM(db.MemoryDSN)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(gdb))

	sdb, err := db.WrapGORM(gdb, "sqlite3")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sdb.Close() })
	return gdb, sdb
}

func strPtr(s string) *string { return &s }

func newJob(id, ref string, status gormModels.JobStatus, driverID *string) gormModels.Job {
	return gormModels.Job{
		ID:        id,
		Ref:       ref,
		Customer:  "Acme",
		Priority:  gormModels.PriorityNormal,
		Status:    status,
		DriverID:  driverID,
		CreatedAt: time.Date(2025, 10, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestJobRepo_CRUD(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewJobRepo(gdb)
	ctx := context.Background()

	job := newJob("j1", "IBT-1", gormModels.JobStatusPending, nil)
	require.NoError(t, repo.Create(ctx, &job))

	got, err := repo.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "IBT-1", got.Ref)

	_, err = repo.Modify(ctx, "j1", func(j *gormModels.Job) ([]string, error) {
		j.Status = gormModels.JobStatusAssigned
		j.Notes = strPtr("call first")
		return []string{"status", "notes"}, nil
	})
	require.NoError(t, err)

	_, err = repo.Modify(ctx, "j1", func(j *gormModels.Job) ([]string, error) {
		j.Notes = nil
		j.TransporterBooked = false
		return []string{"notes", "transporter_booked"}, nil
	})
	require.NoError(t, err, "nil and false are written too")

	reloaded, err := repo.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, gormModels.JobStatusAssigned, reloaded.Status)
	assert.Nil(t, reloaded.Notes)
	assert.True(t, reloaded.CreatedAt.Equal(job.CreatedAt), "created_at is never rewritten")

	require.NoError(t, repo.Delete(ctx, "j1"))
	_, err = repo.GetByID(ctx, "j1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "j1"), ErrNotFound)

	_, err = repo.Modify(ctx, "nope", func(*gormModels.Job) ([]string, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobRepo_ModifyWritesOnlyNamedColumns(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewJobRepo(gdb)
	ctx := context.Background()

	job := newJob("j1", "IBT-1", gormModels.JobStatusPending, nil)
	require.NoError(t, repo.Create(ctx, &job))

	// A column written behind the caller's back must survive a patch of another column.
	require.NoError(t, gdb.Model(&gormModels.Job{ID: "j1"}).Update("notes", "gate 4").Error)

	got, err := repo.Modify(ctx, "j1", func(j *gormModels.Job) ([]string, error) {
		assert.Equal(t, "gate 4", *j.Notes, "the mutation sees the stored row")
		j.Priority = gormModels.PriorityUrgent
		j.Ref = "ignored"
		return []string{"priority"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, gormModels.PriorityUrgent, got.Priority)

	reloaded, err := repo.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, gormModels.PriorityUrgent, reloaded.Priority)
	require.NotNil(t, reloaded.Notes)
	assert.Equal(t, "gate 4", *reloaded.Notes)
	assert.Equal(t, "IBT-1", reloaded.Ref, "unnamed columns are not written")
}

func TestJobRepo_ModifyAbortsOnMutationError(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewJobRepo(gdb)
	ctx := context.Background()

	job := newJob("j1", "IBT-1", gormModels.JobStatusPending, nil)
	require.NoError(t, repo.Create(ctx, &job))

	boom := errors.New("boom")
	_, err := repo.Modify(ctx, "j1", func(j *gormModels.Job) ([]string, error) {
		j.Ref = "changed"
		return nil, boom
	})
	assert.Same(t, boom, err, "mutation errors come back unwrapped")

	reloaded, err := repo.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, "IBT-1", reloaded.Ref)
}

func TestJobRepo_BulkCreateAllOrNothing(t *testing.T) {
	gdb, _ := setupTestDB(t)
	repo := NewJobRepo(gdb)
	ctx := context.Background()

	require.NoError(t, repo.BulkCreate(ctx, []gormModels.Job{
		newJob("a", "A", gormModels.JobStatusPending, nil),
		newJob("b", "B", gormModels.JobStatusPending, nil),
	}))

	err := repo.BulkCreate(ctx, []gormModels.Job{
		newJob("c", "C", gormModels.JobStatusPending, nil),
		newJob("a", "A again", gormModels.JobStatusPending, nil),
	})
	assert.ErrorIs(t, err, ErrConflict)

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 2, "the failed batch left nothing behind")

	assert.NoError(t, repo.BulkCreate(ctx, nil))
}

func TestDriverRepo_UniqueCallsignAndDelete(t *testing.T) {
	gdb, _ := setupTestDB(t)
	drivers := NewDriverRepo(gdb)
	jobs := NewJobRepo(gdb)
	ctx := context.Background()

	d := gormModels.Driver{ID: "d1", Name: "Sipho", Callsign: "TRK-1", Capacity: 20, Status: gormModels.DriverAvailable}
	require.NoError(t, drivers.Create(ctx, &d))

	dup := gormModels.Driver{ID: "d2", Name: "Other", Callsign: "TRK-1", Status: gormModels.DriverAvailable}
	assert.ErrorIs(t, drivers.Create(ctx, &dup), ErrConflict)

	other := gormModels.Driver{ID: "d3", Name: "Other", Callsign: "TRK-3", Status: gormModels.DriverAvailable}
	require.NoError(t, drivers.Create(ctx, &other))
	_, err := drivers.Modify(ctx, "d3", func(d *gormModels.Driver) ([]string, error) {
		d.Callsign = "TRK-1"
		return []string{"callsign"}, nil
	})
	assert.ErrorIs(t, err, ErrConflict)

	job := newJob("j1", "IBT-1", gormModels.JobStatusAssigned, strPtr("d1"))
	require.NoError(t, jobs.Create(ctx, &job))

	require.NoError(t, drivers.Delete(ctx, "d1"))
	released, err := jobs.GetByID(ctx, "j1")
	require.NoError(t, err)
	assert.Nil(t, released.DriverID)

	assert.ErrorIs(t, drivers.Delete(ctx, "d1"), ErrNotFound)
	_, err = drivers.GetByID(ctx, "d1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDriverLoadRepo_ActiveAssignments(t *testing.T) {
	gdb, sdb := setupTestDB(t)
	jobs := NewJobRepo(gdb)
	load := NewDriverLoadRepo(sdb)
	ctx := context.Background()

	require.NoError(t, jobs.BulkCreate(ctx, []gormModels.Job{
		newJob("1", "A", gormModels.JobStatusAssigned, strPtr("d1")),
		newJob("2", "B", gormModels.JobStatusEnRoute, strPtr("d1")),
		newJob("3", "C", gormModels.JobStatusDelivered, strPtr("d1")),
		newJob("4", "D", gormModels.JobStatusAssigned, strPtr("d2")),
		newJob("5", "E", gormModels.JobStatusPending, nil),
	}))

	counts, err := load.ActiveAssignments(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"d1": 2, "d2": 1}, counts)

	n, err := load.ActiveAssignmentsFor(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = load.ActiveAssignmentsFor(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.NoError(t, load.Ping(ctx))
}
