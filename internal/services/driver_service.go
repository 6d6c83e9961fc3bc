package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/models/dtos"
	gormModels "dispatch-app/backend/internal/models/gorm"
	"dispatch-app/backend/internal/query"
)

// ErrDuplicateCallsign is returned when a callsign is already taken.
var ErrDuplicateCallsign = fmt.Errorf("callsign: %w", repositories.ErrConflict)

type DriverService struct {
	drivers DriverStore
	load    DriverLoadCounter
	ids     common.IDGenerator
}

func NewDriverService(drivers DriverStore, load DriverLoadCounter, ids common.IDGenerator) *DriverService {
	return &DriverService{
		drivers: drivers,
		load:    load,
		ids:     ids,
	}
}

// List returns drivers matching search with assignedJobs filled in.
func (s *DriverService) List(ctx context.Context, search string) ([]gormModels.Driver, error) {
	drivers, err := s.drivers.List(ctx)
	if err != nil {
		return nil, err
	}
	drivers = query.FilterDrivers(drivers, search)

	load, err := s.load.ActiveAssignments(ctx)
	if err != nil {
		return nil, err
	}
	for i := range drivers {
		drivers[i].AssignedJobs = load[drivers[i].ID]
	}
	return drivers, nil
}

func (s *DriverService) Get(ctx context.Context, id string) (*gormModels.Driver, error) {
	driver, err := s.drivers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fillLoad(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

func (s *DriverService) Create(ctx context.Context, req *dtos.CreateDriverRequest) (*gormModels.Driver, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	driver := &gormModels.Driver{
		ID:       s.ids.NewID(),
		Name:     strings.TrimSpace(req.Name),
		Callsign: strings.TrimSpace(req.Callsign),
		Location: req.Location,
		Capacity: req.Capacity,
		Status:   req.Status,
		Phone:    optionalText(req.Phone),
		Email:    optionalText(req.Email),
	}
	if driver.Status == "" {
		driver.Status = gormModels.DriverAvailable
	}

	if err := s.drivers.Create(ctx, driver); err != nil {
		return nil, conflictAsCallsign(err)
	}
	logging.Info("Driver created", "driver_id", driver.ID, "callsign", driver.Callsign)
	return driver, nil
}

func (s *DriverService) Update(ctx context.Context, id string, req *dtos.UpdateDriverRequest) (*gormModels.Driver, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	driver, err := s.drivers.Modify(ctx, id, func(driver *gormModels.Driver) ([]string, error) {
		var cols []string
		if req.Name != nil {
			driver.Name = strings.TrimSpace(*req.Name)
			cols = append(cols, "name")
		}
		if req.Callsign != nil {
			driver.Callsign = strings.TrimSpace(*req.Callsign)
			cols = append(cols, "callsign")
		}
		if req.Location != nil {
			driver.Location = *req.Location
			cols = append(cols, "location")
		}
		if req.Capacity != nil {
			driver.Capacity = *req.Capacity
			cols = append(cols, "capacity")
		}
		if req.Status != nil {
			driver.Status = *req.Status
			cols = append(cols, "status")
		}
		if req.Phone != nil {
			driver.Phone = optionalText(req.Phone)
			cols = append(cols, "phone")
		}
		if req.Email != nil {
			driver.Email = optionalText(req.Email)
			cols = append(cols, "email")
		}
		return cols, nil
	})
	if err != nil {
		return nil, conflictAsCallsign(err)
	}
	if err := s.fillLoad(ctx, driver); err != nil {
		return nil, err
	}
	return driver, nil
}

// Delete removes the driver; its jobs stay but lose their driverId.
func (s *DriverService) Delete(ctx context.Context, id string) error {
	if err := s.drivers.Delete(ctx, id); err != nil {
		return err
	}
	logging.Info("Driver deleted", "driver_id", id)
	return nil
}

func (s *DriverService) fillLoad(ctx context.Context, driver *gormModels.Driver) error {
	n, err := s.load.ActiveAssignmentsFor(ctx, driver.ID)
	if err != nil {
		return err
	}
	driver.AssignedJobs = n
	return nil
}

func conflictAsCallsign(err error) error {
	if errors.Is(err, repositories.ErrConflict) {
		return ErrDuplicateCallsign
	}
	return err
}
