package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dispatch-app/backend/internal/common"
	"dispatch-app/backend/internal/db/repositories"
	"dispatch-app/backend/internal/importer"
	"dispatch-app/backend/internal/logging"
	"dispatch-app/backend/internal/metrics"
	"dispatch-app/backend/internal/models/dtos"
	gormModels "dispatch-app/backend/internal/models/gorm"
	"dispatch-app/backend/internal/query"
)

const (
	originAPI    = "api"
	originBulk   = "bulk"
	originImport = "import"
)

// JobService owns every write to a job: defaults, the status state machine
// and the readyForDispatch derivation.
type JobService struct {
	jobs    JobStore
	drivers DriverStore
	clock   common.Clock
	ids     common.IDGenerator
	metrics *metrics.MetricsRegistry
}

func NewJobService(jobs JobStore, drivers DriverStore, clock common.Clock, ids common.IDGenerator, reg *metrics.MetricsRegistry) *JobService {
	return &JobService{
		jobs:    jobs,
		drivers: drivers,
		clock:   clock,
		ids:     ids,
		metrics: reg,
	}
}

// List applies the filter then the sort to every stored job.
func (s *JobService) List(ctx context.Context, filter query.JobFilter, sort query.JobSort) ([]gormModels.Job, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return nil, err
	}
	return query.SortJobs(query.FilterJobs(jobs, filter), sort), nil
}

func (s *JobService) Get(ctx context.Context, id string) (*gormModels.Job, error) {
	return s.jobs.GetByID(ctx, id)
}

func (s *JobService) Create(ctx context.Context, req *dtos.CreateJobRequest) (*gormModels.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	job, err := s.buildJob(ctx, req, map[string]bool{})
	if err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	s.countCreated(originAPI, 1)
	logging.Info("Job created", "job_id", job.ID, "ref", job.Ref, "status", job.Status)
	return job, nil
}

// BulkCreate stores every job of the request or none of them.
func (s *JobService) BulkCreate(ctx context.Context, req *dtos.BulkCreateJobsRequest) ([]gormModels.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	knownDrivers := map[string]bool{}
	jobs := make([]gormModels.Job, 0, len(req.Jobs))
	for i := range req.Jobs {
		job, err := s.buildJob(ctx, &req.Jobs[i], knownDrivers)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return nil, prefixFields(verr, fmt.Sprintf("jobs[%d].", i))
			}
			return nil, err
		}
		jobs = append(jobs, *job)
	}

	if err := s.jobs.BulkCreate(ctx, jobs); err != nil {
		return nil, err
	}
	s.countCreated(originBulk, len(jobs))
	logging.Info("Jobs bulk created", "count", len(jobs))
	return jobs, nil
}

// CreateFromRecords turns committed import records into pending jobs, all
// or nothing.
func (s *JobService) CreateFromRecords(ctx context.Context, jobType gormModels.JobType, records []importer.Record) ([]gormModels.Job, error) {
	now := s.clock.Now()
	jobs := make([]gormModels.Job, 0, len(records))
	for _, rec := range records {
		t := jobType
		priority := rec.Priority
		if priority == "" {
			priority = gormModels.PriorityNormal
		}
		jobs = append(jobs, gormModels.Job{
			ID:             s.ids.NewID(),
			Ref:            rec.Ref,
			Customer:       rec.Customer,
			Pickup:         rec.Pickup,
			Dropoff:        rec.Dropoff,
			Warehouse:      rec.Warehouse,
			Priority:       priority,
			Status:         gormModels.JobStatusPending,
			JobType:        &t,
			Pallets:        rec.Pallets,
			OutstandingQty: rec.OutstandingQty,
			Eta:            rec.Eta,
			Notes:          rec.Notes,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}

	if err := s.jobs.BulkCreate(ctx, jobs); err != nil {
		return nil, err
	}
	s.countCreated(originImport, len(jobs))
	return jobs, nil
}

func (s *JobService) buildJob(ctx context.Context, req *dtos.CreateJobRequest, knownDrivers map[string]bool) (*gormModels.Job, error) {
	now := s.clock.Now()
	job := &gormModels.Job{
		ID:                s.ids.NewID(),
		Ref:               strings.TrimSpace(req.Ref),
		Customer:          strings.TrimSpace(req.Customer),
		Pickup:            req.Pickup,
		Dropoff:           req.Dropoff,
		Warehouse:         optionalText(req.Warehouse),
		Priority:          req.Priority,
		Status:            req.Status,
		JobType:           req.JobType,
		Pallets:           req.Pallets,
		OutstandingQty:    req.OutstandingQty,
		TransporterBooked: req.TransporterBooked,
		OrderPicked:       req.OrderPicked,
		CoaAvailable:      req.CoaAvailable,
		Eta:               optionalText(req.Eta),
		ScheduledAt:       req.ScheduledAt,
		Notes:             optionalText(req.Notes),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if job.Priority == "" {
		job.Priority = gormModels.PriorityNormal
	}

	if id := strings.TrimSpace(deref(req.DriverID)); id != "" {
		if !knownDrivers[id] {
			if err := s.requireDriver(ctx, id); err != nil {
				return nil, err
			}
			knownDrivers[id] = true
		}
		job.DriverID = &id
	}

	if job.Status == "" {
		job.Status = gormModels.JobStatusPending
		if job.DriverID != nil {
			job.Status = gormModels.JobStatusAssigned
		}
	}
	switch job.Status {
	case gormModels.JobStatusException:
		reason := strings.TrimSpace(deref(req.ExceptionReason))
		if reason == "" {
			return nil, invalid("exceptionReason", "exceptionReason is required when status is exception")
		}
		job.ExceptionReason = &reason
	case gormModels.JobStatusDelivered:
		job.ActualDeliveryAt = &now
	}

	job.RefreshReadiness()
	return job, nil
}

// Columns a status transition or a workflow change may touch. Writing them
// back is safe because Modify hands the mutation a freshly locked row.
var (
	transitionColumns = []string{"status", "exception_reason", "actual_delivery_at"}
	workflowColumns   = []string{"transporter_booked", "order_picked", "coa_available", "ready_for_dispatch"}
)

// Update applies a partial patch. Only the columns named in the patch (plus
// derived ones) are written. A status in the patch goes through the same
// state machine as ChangeStatus.
func (s *JobService) Update(ctx context.Context, id string, req *dtos.UpdateJobRequest) (*gormModels.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var driverID string
	if req.DriverID != nil {
		driverID = strings.TrimSpace(*req.DriverID)
		if driverID != "" {
			if _, err := s.jobs.GetByID(ctx, id); err != nil {
				return nil, err
			}
			if err := s.requireDriver(ctx, driverID); err != nil {
				return nil, err
			}
		}
	}

	var from gormModels.JobStatus
	job, err := s.jobs.Modify(ctx, id, func(job *gormModels.Job) ([]string, error) {
		from = job.Status
		var cols []string

		if req.Ref != nil {
			job.Ref = strings.TrimSpace(*req.Ref)
			cols = append(cols, "ref")
		}
		if req.Customer != nil {
			job.Customer = strings.TrimSpace(*req.Customer)
			cols = append(cols, "customer")
		}
		if req.Pickup != nil {
			job.Pickup = *req.Pickup
			cols = append(cols, "pickup")
		}
		if req.Dropoff != nil {
			job.Dropoff = *req.Dropoff
			cols = append(cols, "dropoff")
		}
		if req.Warehouse != nil {
			job.Warehouse = optionalText(req.Warehouse)
			cols = append(cols, "warehouse")
		}
		if req.Priority != nil {
			job.Priority = *req.Priority
			cols = append(cols, "priority")
		}
		if req.Pallets != nil {
			job.Pallets = req.Pallets
			cols = append(cols, "pallets")
		}
		if req.OutstandingQty != nil {
			job.OutstandingQty = req.OutstandingQty
			cols = append(cols, "outstanding_qty")
		}
		if req.Eta != nil {
			job.Eta = optionalText(req.Eta)
			cols = append(cols, "eta")
		}
		if req.ScheduledAt != nil {
			job.ScheduledAt = req.ScheduledAt
			cols = append(cols, "scheduled_at")
		}
		if req.Notes != nil {
			job.Notes = optionalText(req.Notes)
			cols = append(cols, "notes")
		}
		if req.DriverID != nil {
			job.DriverID = nil
			if driverID != "" {
				job.DriverID = &driverID
			}
			cols = append(cols, "driver_id")
		}

		if req.TouchesWorkflow() {
			applyWorkflow(job, req.TransporterBooked, req.OrderPicked, req.CoaAvailable)
			cols = append(cols, workflowColumns...)
		}

		switch {
		case req.Status != nil:
			if err := s.transition(job, *req.Status, req.ExceptionReason); err != nil {
				return nil, err
			}
			cols = append(cols, transitionColumns...)
		case req.ExceptionReason != nil && job.Status == gormModels.JobStatusException:
			reason := strings.TrimSpace(*req.ExceptionReason)
			if reason == "" {
				return nil, invalid("exceptionReason", "exceptionReason cannot be cleared while the job is in exception")
			}
			job.ExceptionReason = &reason
			cols = append(cols, "exception_reason")
		}
		return s.touch(job, cols), nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTransition(job, from)
	return job, nil
}

// Assign sets the driver and moves the job to assigned.
func (s *JobService) Assign(ctx context.Context, id string, req *dtos.AssignJobRequest) (*gormModels.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.jobs.GetByID(ctx, id); err != nil {
		return nil, err
	}
	driverID := strings.TrimSpace(req.DriverID)
	if err := s.requireDriver(ctx, driverID); err != nil {
		return nil, err
	}

	var from gormModels.JobStatus
	job, err := s.jobs.Modify(ctx, id, func(job *gormModels.Job) ([]string, error) {
		from = job.Status
		if err := s.transition(job, gormModels.JobStatusAssigned, nil); err != nil {
			return nil, err
		}
		job.DriverID = &driverID
		return s.touch(job, append([]string{"driver_id"}, transitionColumns...)), nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTransition(job, from)
	logging.Info("Job assigned", "job_id", job.ID, "driver_id", driverID)
	return job, nil
}

// Unassign clears the driver; an assigned job goes back to pending.
// Delivered and cancelled jobs keep their driver.
func (s *JobService) Unassign(ctx context.Context, id string) (*gormModels.Job, error) {
	var from gormModels.JobStatus
	job, err := s.jobs.Modify(ctx, id, func(job *gormModels.Job) ([]string, error) {
		from = job.Status
		if job.Status.Terminal() {
			return nil, fmt.Errorf("%w: job is %s", ErrInvalidTransition, job.Status)
		}
		job.DriverID = nil
		if job.Status == gormModels.JobStatusAssigned {
			if err := s.transition(job, gormModels.JobStatusPending, nil); err != nil {
				return nil, err
			}
		}
		return s.touch(job, append([]string{"driver_id"}, transitionColumns...)), nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTransition(job, from)
	logging.Info("Job unassigned", "job_id", job.ID)
	return job, nil
}

func (s *JobService) ChangeStatus(ctx context.Context, id string, req *dtos.StatusChangeRequest) (*gormModels.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	var from gormModels.JobStatus
	job, err := s.jobs.Modify(ctx, id, func(job *gormModels.Job) ([]string, error) {
		from = job.Status
		if err := s.transition(job, req.Status, req.ExceptionReason); err != nil {
			return nil, err
		}
		return s.touch(job, transitionColumns), nil
	})
	if err != nil {
		return nil, err
	}
	s.recordTransition(job, from)
	return job, nil
}

// PatchWorkflow sets any of the three workflow flags and recomputes readiness
// from the flags as they are stored.
func (s *JobService) PatchWorkflow(ctx context.Context, id string, req *dtos.WorkflowPatchRequest) (*gormModels.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	return s.jobs.Modify(ctx, id, func(job *gormModels.Job) ([]string, error) {
		applyWorkflow(job, req.TransporterBooked, req.OrderPicked, req.CoaAvailable)
		return s.touch(job, workflowColumns), nil
	})
}

func (s *JobService) Delete(ctx context.Context, id string) error {
	if err := s.jobs.Delete(ctx, id); err != nil {
		return err
	}
	logging.Info("Job deleted", "job_id", id)
	return nil
}

// transition moves job to status `to`. Setting the current status again is a
// no-op, delivered and cancelled are final, and exception needs a reason.
func (s *JobService) transition(job *gormModels.Job, to gormModels.JobStatus, reason *string) error {
	from := job.Status
	if to == from {
		if r := strings.TrimSpace(deref(reason)); to == gormModels.JobStatusException && r != "" {
			job.ExceptionReason = &r
		}
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
	}

	switch to {
	case gormModels.JobStatusException:
		r := strings.TrimSpace(deref(reason))
		if r == "" {
			return invalid("exceptionReason", "exceptionReason is required when status is exception")
		}
		job.ExceptionReason = &r
	case gormModels.JobStatusDelivered:
		if job.ActualDeliveryAt == nil {
			now := s.clock.Now()
			job.ActualDeliveryAt = &now
		}
	}
	if from == gormModels.JobStatusException {
		job.ExceptionReason = nil
	}

	job.Status = to
	return nil
}

// touch stamps updated_at when a mutation changed anything.
func (s *JobService) touch(job *gormModels.Job, cols []string) []string {
	if len(cols) == 0 {
		return nil
	}
	job.UpdatedAt = s.clock.Now()
	return append(cols, "updated_at")
}

func (s *JobService) recordTransition(job *gormModels.Job, from gormModels.JobStatus) {
	if from == job.Status {
		return
	}
	if s.metrics != nil {
		s.metrics.JobStatusTransitions.WithLabelValues(string(from), string(job.Status)).Inc()
	}
	logging.Info("Job status changed", "job_id", job.ID, "from", from, "to", job.Status)
}

// requireDriver turns a missing driver into a validation error on driverId.
func (s *JobService) requireDriver(ctx context.Context, id string) error {
	if _, err := s.drivers.GetByID(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalid("driverId", fmt.Sprintf("driver %s does not exist", id))
		}
		return err
	}
	return nil
}

func (s *JobService) countCreated(origin string, n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.JobsCreatedTotal.WithLabelValues(origin).Add(float64(n))
	}
}

func applyWorkflow(job *gormModels.Job, transporterBooked, orderPicked, coaAvailable *bool) {
	if transporterBooked != nil {
		job.TransporterBooked = *transporterBooked
	}
	if orderPicked != nil {
		job.OrderPicked = *orderPicked
	}
	if coaAvailable != nil {
		job.CoaAvailable = *coaAvailable
	}
	job.RefreshReadiness()
}

// optionalText maps nil and blank strings to an unset column.
func optionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func prefixFields(verr *ValidationError, prefix string) error {
	fields := make(map[string]string, len(verr.Fields))
	for k, v := range verr.Fields {
		fields[prefix+k] = v
	}
	return &ValidationError{Fields: fields}
}
