package repositories

import (
	"context"

	gormModels "dispatch-app/backend/internal/models/gorm"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const bulkBatchSize = 200

type JobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) *JobRepo {
	return &JobRepo{db: db}
}

// List returns every job, newest first.
func (r *JobRepo) List(ctx context.Context) ([]gormModels.Job, error) {
	var jobs []gormModels.Job
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, translate("failed to list jobs", err)
	}
	return jobs, nil
}

func (r *JobRepo) GetByID(ctx context.Context, id string) (*gormModels.Job, error) {
	var job gormModels.Job
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, translate("failed to fetch job "+id, err)
	}
	return &job, nil
}

func (r *JobRepo) Create(ctx context.Context, job *gormModels.Job) error {
	return translate("failed to create job", r.db.WithContext(ctx).Create(job).Error)
}

// BulkCreate inserts all jobs or none.
func (r *JobRepo) BulkCreate(ctx context.Context, jobs []gormModels.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&jobs, bulkBatchSize).Error
	})
	return translate("failed to bulk create jobs", err)
}

// Modify locks job id, re-reads it, lets fn change it and writes back only
// the columns fn returns. An error from fn aborts the transaction and is
// returned as is. No columns means nothing is written.
func (r *JobRepo) Modify(ctx context.Context, id string, fn func(job *gormModels.Job) ([]string, error)) (*gormModels.Job, error) {
	var (
		job   gormModels.Job
		fnErr error
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&job).Error
		if err != nil {
			return err
		}
		columns, err := fn(&job)
		if err != nil {
			fnErr = err
			return err
		}
		if len(columns) == 0 {
			return nil
		}
		return tx.Model(&gormModels.Job{ID: id}).
			Select(columns).
			UpdateColumns(&job).Error
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		return nil, translate("failed to update job "+id, err)
	}
	return &job, nil
}

func (r *JobRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&gormModels.Job{})
	if res.Error != nil {
		return translate("failed to delete job "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return translate("failed to delete job "+id, gorm.ErrRecordNotFound)
	}
	return nil
}
