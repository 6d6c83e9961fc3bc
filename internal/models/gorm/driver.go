package gorm

type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
	DriverBreak     DriverStatus = "break"
)

var DriverStatuses = []DriverStatus{DriverAvailable, DriverBusy, DriverOffline, DriverBreak}

func (s DriverStatus) Valid() bool {
	for _, v := range DriverStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Driver is a transporter. Capacity counts pallet slots.
type Driver struct {
	ID       string       `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Name     string       `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Callsign string       `gorm:"column:callsign;type:varchar(64);not null;uniqueIndex" json:"callsign"`
	Location string       `gorm:"column:location;type:varchar(255)" json:"location"`
	Capacity int          `gorm:"column:capacity;not null;default:0" json:"capacity"`
	Status   DriverStatus `gorm:"column:status;type:varchar(16);not null;default:available" json:"status"`
	Phone    *string      `gorm:"column:phone;type:varchar(64)" json:"phone,omitempty"`
	Email    *string      `gorm:"column:email;type:varchar(255)" json:"email,omitempty"`

	// AssignedJobs is derived on read from the driver's active jobs.
	AssignedJobs int `gorm:"-" json:"assignedJobs"`
}

func (Driver) TableName() string {
	return "drivers"
}
