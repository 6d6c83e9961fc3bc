package services

import (
	"context"
	"testing"

	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/models/dtos"
	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriverService_CreateAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	d, err := f.drivers.Create(ctx, &dtos.CreateDriverRequest{
		Name: " Sipho Dlamini ", Callsign: "TRK-1", Capacity: 24, Email: strPtr("sipho@fleet.example"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Sipho Dlamini", d.Name)
	assert.Equal(t, gormModels.DriverAvailable, d.Status)

	_, err = f.drivers.Create(ctx, &dtos.CreateDriverRequest{Name: "Other", Callsign: "TRK-1"})
	assert.ErrorIs(t, err, ErrDuplicateCallsign)
	assert.ErrorIs(t, err, repositories.ErrConflict)

	_, err = f.drivers.Create(ctx, &dtos.CreateDriverRequest{Name: "Bad", Callsign: "TRK-9", Email: strPtr("not-an-email")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.drivers.Create(ctx, &dtos.CreateDriverRequest{Name: "Neg", Callsign: "TRK-8", Capacity: -1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDriverService_AssignedJobsAndSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sipho := f.driver(t, "TRK-1")
	anna := f.driver(t, "TRK-2")

	for _, ref := range []string{"A", "B", "C"} {
		j := f.job(t, ref)
		_, err := f.jobs.Assign(ctx, j.ID, &dtos.AssignJobRequest{DriverID: sipho.ID})
		require.NoError(t, err)
		if ref == "C" {
			_, err = f.jobs.ChangeStatus(ctx, j.ID, &dtos.StatusChangeRequest{Status: gormModels.JobStatusDelivered})
			require.NoError(t, err)
		}
	}

	drivers, err := f.drivers.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	load := map[string]int{}
	for _, d := range drivers {
		load[d.ID] = d.AssignedJobs
	}
	assert.Equal(t, map[string]int{sipho.ID: 2, anna.ID: 0}, load, "delivered jobs are not active")

	got, err := f.drivers.Get(ctx, sipho.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.AssignedJobs)

	found, err := f.drivers.List(ctx, "trk-2")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, anna.ID, found[0].ID)
}

func TestDriverService_UpdateAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.driver(t, "TRK-1")
	f.driver(t, "TRK-2")

	busy := gormModels.DriverBusy
	updated, err := f.drivers.Update(ctx, d.ID, &dtos.UpdateDriverRequest{Status: &busy, Location: strPtr("Durban"), Phone: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, gormModels.DriverBusy, updated.Status)
	assert.Equal(t, "Durban", updated.Location)
	assert.Nil(t, updated.Phone)
	assert.Equal(t, 20, updated.Capacity)

	_, err = f.drivers.Update(ctx, d.ID, &dtos.UpdateDriverRequest{Callsign: strPtr("TRK-2")})
	assert.ErrorIs(t, err, ErrDuplicateCallsign)

	job := f.job(t, "A")
	_, err = f.jobs.Assign(ctx, job.ID, &dtos.AssignJobRequest{DriverID: d.ID})
	require.NoError(t, err)

	require.NoError(t, f.drivers.Delete(ctx, d.ID))
	released, err := f.jobs.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Nil(t, released.DriverID)

	_, err = f.drivers.Get(ctx, d.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = f.drivers.Update(ctx, d.ID, &dtos.UpdateDriverRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
