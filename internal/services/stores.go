package services

import (
	"context"

	gormModels "dispatch-app/backend/internal/models/gorm"
)

// JobStore is the persistence surface JobService needs. *repositories.JobRepo implements it.
type JobStore interface {
	List(ctx context.Context) ([]gormModels.Job, error)
	GetByID(ctx context.Context, id string) (*gormModels.Job, error)
	Create(ctx context.Context, job *gormModels.Job) error
	BulkCreate(ctx context.Context, jobs []gormModels.Job) error
	// Modify re-reads the job under a row lock, applies fn and writes only
	// the columns fn returns.
	Modify(ctx context.Context, id string, fn func(job *gormModels.Job) ([]string, error)) (*gormModels.Job, error)
	Delete(ctx context.Context, id string) error
}

type DriverStore interface {
	List(ctx context.Context) ([]gormModels.Driver, error)
	GetByID(ctx context.Context, id string) (*gormModels.Driver, error)
	Create(ctx context.Context, driver *gormModels.Driver) error
	Modify(ctx context.Context, id string, fn func(driver *gormModels.Driver) ([]string, error)) (*gormModels.Driver, error)
	Delete(ctx context.Context, id string) error
}

// DriverLoadCounter counts each driver's assigned and en-route jobs.
type DriverLoadCounter interface {
	ActiveAssignments(ctx context.Context) (map[string]int, error)
	ActiveAssignmentsFor(ctx context.Context, driverID string) (int, error)
}
