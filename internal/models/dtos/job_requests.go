package dtos

import (
	"time"

	gormModels "dispatch-app/backend/internal/models/gorm"
)

type CreateJobRequest struct {
	Ref       string                 `json:"ref" validate:"required,notblank,max=120"`
	Customer  string                 `json:"customer" validate:"required,notblank,max=255"`
	Pickup    string                 `json:"pickup" validate:"max=255"`
	Dropoff   string                 `json:"dropoff" validate:"max=255"`
	Warehouse *string                `json:"warehouse" validate:"omitempty,max=255"`
	Priority  gormModels.JobPriority `json:"priority" validate:"omitempty,oneof=urgent high normal low"`
	Status    gormModels.JobStatus   `json:"status" validate:"omitempty,oneof=pending assigned en-route delivered exception cancelled"`
	JobType   *gormModels.JobType    `json:"jobType" validate:"omitempty,oneof=order ibt"`

	Pallets        *int `json:"pallets" validate:"omitempty,min=0"`
	OutstandingQty *int `json:"outstandingQty" validate:"omitempty,min=0"`

	TransporterBooked bool `json:"transporterBooked"`
	OrderPicked       bool `json:"orderPicked"`
	CoaAvailable      bool `json:"coaAvailable"`

	Eta             *string    `json:"eta" validate:"omitempty,datetime=2006-01-02"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DriverID        *string    `json:"driverId"`
	ExceptionReason *string    `json:"exceptionReason"`
	Notes           *string    `json:"notes"`
}

func (d *CreateJobRequest) Ok() (map[string]string, bool) {
	return check(d)
}

type BulkCreateJobsRequest struct {
	Jobs []CreateJobRequest `json:"jobs" validate:"required,min=1,dive"`
}

func (d *BulkCreateJobsRequest) Ok() (map[string]string, bool) {
	return check(d)
}

// UpdateJobRequest is a partial patch; nil fields are left alone. An empty
// string clears an optional text field.
type UpdateJobRequest struct {
	Ref       *string                 `json:"ref" validate:"omitempty,notblank,max=120"`
	Customer  *string                 `json:"customer" validate:"omitempty,notblank,max=255"`
	Pickup    *string                 `json:"pickup" validate:"omitempty,max=255"`
	Dropoff   *string                 `json:"dropoff" validate:"omitempty,max=255"`
	Warehouse *string                 `json:"warehouse" validate:"omitempty,max=255"`
	Priority  *gormModels.JobPriority `json:"priority" validate:"omitempty,oneof=urgent high normal low"`
	Status    *gormModels.JobStatus   `json:"status" validate:"omitempty,oneof=pending assigned en-route delivered exception cancelled"`

	Pallets        *int `json:"pallets" validate:"omitempty,min=0"`
	OutstandingQty *int `json:"outstandingQty" validate:"omitempty,min=0"`

	TransporterBooked *bool `json:"transporterBooked"`
	OrderPicked       *bool `json:"orderPicked"`
	CoaAvailable      *bool `json:"coaAvailable"`

	Eta             *string    `json:"eta" validate:"omitempty,datetime=2006-01-02"`
	ScheduledAt     *time.Time `json:"scheduledAt"`
	DriverID        *string    `json:"driverId"`
	ExceptionReason *string    `json:"exceptionReason"`
	Notes           *string    `json:"notes"`
}

func (d *UpdateJobRequest) Ok() (map[string]string, bool) {
	return check(d)
}

// TouchesWorkflow reports whether the patch sets any workflow flag.
func (d *UpdateJobRequest) TouchesWorkflow() bool {
	return d.TransporterBooked != nil || d.OrderPicked != nil || d.CoaAvailable != nil
}

type AssignJobRequest struct {
	DriverID string `json:"driverId" validate:"required"`
}

func (d *AssignJobRequest) Ok() (map[string]string, bool) {
	return check(d)
}

type StatusChangeRequest struct {
	Status          gormModels.JobStatus `json:"status" validate:"required,oneof=pending assigned en-route delivered exception cancelled"`
	ExceptionReason *string              `json:"exceptionReason"`
}

func (d *StatusChangeRequest) Ok() (map[string]string, bool) {
	return check(d)
}

type WorkflowPatchRequest struct {
	TransporterBooked *bool `json:"transporterBooked"`
	OrderPicked       *bool `json:"orderPicked"`
	CoaAvailable      *bool `json:"coaAvailable"`
}

func (d *WorkflowPatchRequest) Ok() (map[string]string, bool) {
	return check(d)
}
