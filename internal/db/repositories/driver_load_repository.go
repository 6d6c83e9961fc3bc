package repositories

import (
	"context"
	"fmt"

	"dispatch-app/backend/internal/constants"
	gormModels "dispatch-app/backend/internal/models/gorm"

	"github.com/jmoiron/sqlx"
)

// DriverLoadRepo runs the raw aggregate queries behind a driver's assignedJobs.
type DriverLoadRepo struct {
	db *sqlx.DB
}

func NewDriverLoadRepo(db *sqlx.DB) *DriverLoadRepo {
	return &DriverLoadRepo{db: db}
}

type driverLoad struct {
	DriverID string `db:"driver_id"`
	Active   int    `db:"active"`
}

// ActiveAssignments counts assigned and en-route jobs per driver id.
func (r *DriverLoadRepo) ActiveAssignments(ctx context.Context) (map[string]int, error) {
	var rows []driverLoad
	query := r.db.Rebind(constants.CountActiveAssignments)
	if err := r.db.SelectContext(ctx, &rows, query, gormModels.JobStatusAssigned, gormModels.JobStatusEnRoute); err != nil {
		return nil, fmt.Errorf("failed to count active assignments: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.DriverID] = row.Active
	}
	return out, nil
}

func (r *DriverLoadRepo) ActiveAssignmentsFor(ctx context.Context, driverID string) (int, error) {
	var n int
	query := r.db.Rebind(constants.CountActiveAssignmentsForDriver)
	if err := r.db.GetContext(ctx, &n, query, driverID, gormModels.JobStatusAssigned, gormModels.JobStatusEnRoute); err != nil {
		return 0, fmt.Errorf("failed to count assignments for %s: %w", driverID, err)
	}
	return n, nil
}

func (r *DriverLoadRepo) Ping(ctx context.Context) error {
	var one int
	return r.db.GetContext(ctx, &one, constants.Ping)
}
