package db

import (
	"context"

	"github.com/terraincognita07/flowbit/internal/models"
	"gorm.io/gorm"
)

type TaskRepository struct {
	database *gorm.DB
}

func NewTaskRepository(database *gorm.DB) *TaskRepository {
	return &TaskRepository{database: database}
}

func (repo *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	return repo.database.WithContext(ctx).Create(task).Error
}

func (repo *TaskRepository) Delete(ctx context.Context, taskID uint) error {
	return repo.database.WithContext(ctx).Delete(&models.Task{}, taskID).Error
}

func (repo *TaskRepository) FindByID(ctx context.Context, taskID uint) (models.Task, error) {
	var task models.Task
	if err := repo.database.WithContext(ctx).First(&task, taskID).Error; err != nil {
		return models.Task{}, err
	}
	return task, nil
}

// CountAssignedBy counts the account's assigned tasks whose column equals
// value. column must be one of the fixed report columns.
func (repo *TaskRepository) CountAssignedBy(ctx context.Context, accountID uint, column string, value string) (int64, error) {
	var count int64
	err := repo.database.WithContext(ctx).
		Model(&models.Task{}).
		Where("id IN (?)", repo.database.Model(&models.Assignment{}).Select("task_id").Where("account_id = ?", accountID)).
		Where(column+" = ?", value).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
