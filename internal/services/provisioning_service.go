package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
)

type ProvisioningOutcome string

const (
	ProvisioningDone    ProvisioningOutcome = "done"
	ProvisioningSkipped ProvisioningOutcome = "skipped"
	ProvisioningFailed  ProvisioningOutcome = "failed"
)

type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, taskID uint) error
}

type AssignmentStore interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	CountByAccount(ctx context.Context, accountID uint) (int64, error)
}

// ProvisioningService seeds an account's workspace with the default catalog.
// The assignment count is the only "already provisioned" marker, so two
// concurrent first logins can both seed.
type ProvisioningService struct {
	tasks       TaskStore
	assignments AssignmentStore
	logger      *slog.Logger
	now         func() time.Time
}

func NewProvisioningService(tasks TaskStore, assignments AssignmentStore, logger *slog.Logger) *ProvisioningService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProvisioningService{
		tasks:       tasks,
		assignments: assignments,
		logger:      logger,
		now:         time.Now,
	}
}

func (service *ProvisioningService) Ensure(ctx context.Context, accountID uint) (ProvisioningOutcome, error) {
	existing, err := service.assignments.CountByAccount(ctx, accountID)
	if err != nil {
		return ProvisioningFailed, fmt.Errorf("%w: count assignments: %v", ErrProvisioning, err)
	}
	catalog := DefaultCatalog()
	if existing >= int64(len(catalog)) {
		return ProvisioningSkipped, nil
	}

	now := service.now().UTC()
	for index, entry := range catalog {
		task := entry.task(now)
		if err := service.tasks.Create(ctx, &task); err != nil {
			return ProvisioningFailed, fmt.Errorf("%w: create catalog task %d: %v", ErrProvisioning, index, err)
		}

		assignment := models.Assignment{
			AccountID:  accountID,
			TaskID:     task.ID,
			IsPriority: entry.IsPriority,
		}
		if err := service.assignments.Create(ctx, &assignment); err != nil {
			return ProvisioningFailed, service.compensate(ctx, accountID, task.ID, index, err)
		}
	}

	service.logger.InfoContext(ctx, "default workspace provisioned",
		"account_id", accountID,
		"catalog_version", DefaultCatalogVersion,
		"tasks", len(catalog),
	)
	return ProvisioningDone, nil
}

// compensate removes the task whose assignment could not be written. A failed
// delete is logged and folded into the returned error; it is not retried.
func (service *ProvisioningService) compensate(ctx context.Context, accountID uint, taskID uint, index int, cause error) error {
	failure := fmt.Errorf("%w: assign catalog task %d: %v", ErrProvisioning, index, cause)
	if err := service.tasks.Delete(ctx, taskID); err != nil {
		service.logger.ErrorContext(ctx, "compensating task delete failed",
			"account_id", accountID,
			"task_id", taskID,
			"error", err,
		)
		return errors.Join(failure, fmt.Errorf("delete orphaned task %d: %w", taskID, err))
	}
	return failure
}
