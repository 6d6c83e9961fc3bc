package repositories

import (
	"context"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DriverRepo struct {
	db *gorm.DB
}

func NewDriverRepo(db *gorm.DB) *DriverRepo {
	return &DriverRepo{db: db}
}

func (r *DriverRepo) List(ctx context.Context) ([]gormModels.Driver, error) {
	var drivers []gormModels.Driver
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&drivers).Error
	if err != nil {
		return nil, translate("failed to list drivers", err)
	}
	return drivers, nil
}

func (r *DriverRepo) GetByID(ctx context.Context, id string) (*gormModels.Driver, error) {
	var driver gormModels.Driver
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&driver).Error
	if err != nil {
		return nil, translate("failed to fetch driver "+id, err)
	}
	return &driver, nil
}

func (r *DriverRepo) Create(ctx context.Context, driver *gormModels.Driver) error {
	return translate("failed to create driver", r.db.WithContext(ctx).Create(driver).Error)
}

// Modify works like JobRepo.Modify for drivers.
func (r *DriverRepo) Modify(ctx context.Context, id string, fn func(driver *gormModels.Driver) ([]string, error)) (*gormModels.Driver, error) {
	var (
		driver gormModels.Driver
		fnErr  error
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&driver).Error
		if err != nil {
			return err
		}
		columns, err := fn(&driver)
		if err != nil {
			fnErr = err
			return err
		}
		if len(columns) == 0 {
			return nil
		}
		return tx.Model(&gormModels.Driver{ID: id}).
			Select(columns).
			UpdateColumns(&driver).Error
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, translate("failed to update driver "+id, err)
	}
	return &driver, nil
}

// Delete removes the driver and releases its jobs in one transaction.
func (r *DriverRepo) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&gormModels.Driver{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&gormModels.Job{}).
			Where("driver_id = ?", id).
			Update("driver_id", nil).Error
	})
	return translate("failed to delete driver "+id, err)
}
