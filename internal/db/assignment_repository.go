package db

import (
	"context"
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AssignmentRepository struct {
	database *gorm.DB
}

func NewAssignmentRepository(database *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{database: database}
}

// Create inserts only the assignment row; the referenced task must already
// exist.
func (repo *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return repo.database.WithContext(ctx).Omit(clause.Associations).Create(assignment).Error
}

func (repo *AssignmentRepository) ListWithTasksByAccount(ctx context.Context, accountID uint) ([]models.Assignment, error) {
	assignments := make([]models.Assignment, 0)
	if err := repo.database.WithContext(ctx).
		Joins("Task").
		Where("assignments.account_id = ?", accountID).
		Order("assignments.id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (repo *AssignmentRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var count int64
	if err := repo.database.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListExpiredByAccount returns the account's assignments whose task was due
// strictly before now, earliest due date first.
func (repo *AssignmentRepository) ListExpiredByAccount(ctx context.Context, accountID uint, now time.Time) ([]models.Assignment, error) {
	assignments := make([]models.Assignment, 0)
	if err := repo.database.WithContext(ctx).
		Joins("Task").
		Where("assignments.account_id = ?", accountID).
		Where(`"Task"."due_at" < ?`, now).
		Order(`"Task"."due_at" ASC`).
		Order("assignments.id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
