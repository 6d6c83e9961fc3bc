package gorm

import "time"

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusEnRoute   JobStatus = "en-route"
	JobStatusDelivered JobStatus = "delivered"
	JobStatusException JobStatus = "exception"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobStatuses lists every status in lifecycle order.
var JobStatuses = []JobStatus{
	JobStatusPending,
	JobStatusAssigned,
	JobStatusEnRoute,
	JobStatusDelivered,
	JobStatusException,
	JobStatusCancelled,
}

// Terminal reports whether no further status change is allowed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusDelivered || s == JobStatusCancelled
}

func (s JobStatus) Valid() bool {
	for _, v := range JobStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type JobPriority string

const (
	PriorityUrgent JobPriority = "urgent"
	PriorityHigh   JobPriority = "high"
	PriorityNormal JobPriority = "normal"
	PriorityLow    JobPriority = "low"
)

var JobPriorities = []JobPriority{PriorityUrgent, PriorityHigh, PriorityNormal, PriorityLow}

func (p JobPriority) Valid() bool {
	for _, v := range JobPriorities {
		if v == p {
			return true
		}
	}
	return false
}

type JobType string

const (
	JobTypeOrder JobType = "order"
	JobTypeIBT   JobType = "ibt"
)

// Job is a delivery job. DriverID is a back-reference only; drivers never embed their jobs.
type Job struct {
	ID        string      `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Ref       string      `gorm:"column:ref;type:varchar(120);not null;index" json:"ref"`
	Customer  string      `gorm:"column:customer;type:varchar(255);not null" json:"customer"`
	Pickup    string      `gorm:"column:pickup;type:varchar(255)" json:"pickup"`
	Dropoff   string      `gorm:"column:dropoff;type:varchar(255)" json:"dropoff"`
	Warehouse *string     `gorm:"column:warehouse;type:varchar(255);index" json:"warehouse,omitempty"`
	Priority  JobPriority `gorm:"column:priority;type:varchar(16);not null;default:normal" json:"priority"`
	Status    JobStatus   `gorm:"column:status;type:varchar(16);not null;default:pending;index" json:"status"`
	JobType   *JobType    `gorm:"column:job_type;type:varchar(16)" json:"jobType,omitempty"`

	Pallets        *int `gorm:"column:pallets" json:"pallets,omitempty"`
	OutstandingQty *int `gorm:"column:outstanding_qty" json:"outstandingQty,omitempty"`

	TransporterBooked bool `gorm:"column:transporter_booked;not null;default:false" json:"transporterBooked"`
	OrderPicked       bool `gorm:"column:order_picked;not null;default:false" json:"orderPicked"`
	CoaAvailable      bool `gorm:"column:coa_available;not null;default:false" json:"coaAvailable"`
	ReadyForDispatch  bool `gorm:"column:ready_for_dispatch;not null;default:false" json:"readyForDispatch"`

	// Eta is a calendar date, YYYY-MM-DD.
	Eta              *string    `gorm:"column:eta;type:varchar(32)" json:"eta,omitempty"`
	ScheduledAt      *time.Time `gorm:"column:scheduled_at" json:"scheduledAt,omitempty"`
	ActualDeliveryAt *time.Time `gorm:"column:actual_delivery_at" json:"actualDeliveryAt,omitempty"`
	ExceptionReason  *string    `gorm:"column:exception_reason;type:text" json:"exceptionReason,omitempty"`

	DriverID *string `gorm:"column:driver_id;type:varchar(36);index" json:"driverId,omitempty"`
	Notes    *string `gorm:"column:notes;type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Job) TableName() string {
	return "jobs"
}

// RefreshReadiness recomputes ReadyForDispatch from the three workflow flags.
// Every mutator that touches a flag must call it before persisting.
func (j *Job) RefreshReadiness() {
	j.ReadyForDispatch = j.TransporterBooked && j.OrderPicked && j.CoaAvailable
}

// AnyWorkflowStep reports whether at least one workflow flag is set.
func (j *Job) AnyWorkflowStep() bool {
	return j.TransporterBooked || j.OrderPicked || j.CoaAvailable
}

// WarehouseName returns the warehouse or "" when unset.
func (j *Job) WarehouseName() string {
	if j.Warehouse == nil {
		return ""
	}
	return *j.Warehouse
}

func (j *Job) DriverRef() string {
	if j.DriverID == nil {
		return ""
	}
	return *j.DriverID
}
