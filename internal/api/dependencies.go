package api

import (
	"fmt"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/config"
	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/importer"
	"dispatch-app/backend/internal/metrics"
	"dispatch-app/backend/internal/services"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Repositories struct {
	Jobs       *repositories.JobRepo
	Drivers    *repositories.DriverRepo
	DriverLoad *repositories.DriverLoadRepo
}

type Services struct {
	Jobs      *services.JobService
	Drivers   *services.DriverService
	Imports   *services.ImportService
	Analytics *services.AnalyticsService
	Cache     common.CacheInterface
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry

	// MaxUploadBytes caps an import upload body.
	MaxUploadBytes int64
}

// InitDependencies wires repositories and services over open connections.
func InitDependencies(
	cfg *config.Configuration,
	gdb *gorm.DB,
	sdb *sqlx.DB,
	cache common.CacheInterface,
	reg *metrics.MetricsRegistry,
	clock common.Clock,
	ids common.IDGenerator,
) (*Dependencies, error) {
	profiles, err := importer.LoadProfiles(cfg.Import.ProfilesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load import profiles: %w", err)
	}

	repos := &Repositories{
		Jobs:       repositories.NewJobRepo(gdb),
		Drivers:    repositories.NewDriverRepo(gdb),
		DriverLoad: repositories.NewDriverLoadRepo(sdb),
	}

	jobSvc := services.NewJobService(repos.Jobs, repos.Drivers, clock, ids, reg)
	svcs := &Services{
		Jobs:      jobSvc,
		Drivers:   services.NewDriverService(repos.Drivers, repos.DriverLoad, ids),
		Imports:   services.NewImportService(profiles, cache, jobSvc, clock, ids, cfg.Import.PreviewTTL, reg),
		Analytics: services.NewAnalyticsService(repos.Jobs, repos.Drivers, clock),
		Cache:     cache,
	}

	return &Dependencies{
		Repo:           repos,
		Services:       svcs,
		Metrics:        reg,
		MaxUploadBytes: cfg.Import.MaxBytes,
	}, nil
}
