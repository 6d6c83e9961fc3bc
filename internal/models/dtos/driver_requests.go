package dtos

import (
	gormModels "dispatch-app/backend/internal/models/gorm"
)

type CreateDriverRequest struct {
	Name     string                  `json:"name" validate:"required,notblank,max=255"`
	Callsign string                  `json:"callsign" validate:"required,notblank,max=64"`
	Location string                  `json:"location" validate:"max=255"`
	Capacity int                     `json:"capacity" validate:"min=0"`
	Status   gormModels.DriverStatus `json:"status" validate:"omitempty,oneof=available busy offline break"`
	Phone    *string                 `json:"phone" validate:"omitempty,max=64"`
	Email    *string                 `json:"email" validate:"omitempty,email"`
}

func (d *CreateDriverRequest) Ok() (map[string]string, bool) {
	return check(d)
}

type UpdateDriverRequest struct {
	Name     *string                  `json:"name" validate:"omitempty,notblank,max=255"`
	Callsign *string                  `json:"callsign" validate:"omitempty,notblank,max=64"`
	Location *string                  `json:"location" validate:"omitempty,max=255"`
	Capacity *int                     `json:"capacity" validate:"omitempty,min=0"`
	Status   *gormModels.DriverStatus `json:"status" validate:"omitempty,oneof=available busy offline break"`
	Phone    *string                  `json:"phone" validate:"omitempty,max=64"`
	Email    *string                  `json:"email" validate:"omitempty,email"`
}

func (d *UpdateDriverRequest) Ok() (map[string]string, bool) {
	return check(d)
}
