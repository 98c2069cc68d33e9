package services

import (
	"context"
	"time"

	"github.com/terraincognita07/flowbit/internal/models"
)

type ReportAccountReader interface {
	FindByHandle(ctx context.Context, handle string) (*models.Account, error)
}

type ReportTaskCounter interface {
	CountAssignedBy(ctx context.Context, accountID uint, column string, value string) (int64, error)
}

type ReportAssignmentReader interface {
	ListExpiredByAccount(ctx context.Context, accountID uint, now time.Time) ([]models.Assignment, error)
}

type TaskStatistics struct {
	Pending        int64 `json:"pending"`
	InProgress     int64 `json:"in_progress"`
	Completed      int64 `json:"completed"`
	HighPriority   int64 `json:"high_priority"`
	MediumPriority int64 `json:"medium_priority"`
	LowPriority    int64 `json:"low_priority"`
}

type StatisticsReport struct {
	Account    PublicAccount  `json:"account"`
	Statistics TaskStatistics `json:"statistics"`
}

type ExpiredTasksReport struct {
	Account     PublicAccount       `json:"account"`
	Assignments []models.Assignment `json:"assignments"`
}

type ReportService struct {
	accounts    ReportAccountReader
	tasks       ReportTaskCounter
	assignments ReportAssignmentReader
}

func NewReportService(accounts ReportAccountReader, tasks ReportTaskCounter, assignments ReportAssignmentReader) *ReportService {
	return &ReportService{
		accounts:    accounts,
		tasks:       tasks,
		assignments: assignments,
	}
}

func (service *ReportService) Statistics(ctx context.Context, handle string) (StatisticsReport, error) {
	account, err := service.findAccount(ctx, handle)
	if err != nil {
		return StatisticsReport{}, err
	}

	stats := TaskStatistics{}
	counts := []struct {
		column string
		value  string
		target *int64
	}{
		{"status", models.StatusPending, &stats.Pending},
		{"status", models.StatusInProgress, &stats.InProgress},
		{"status", models.StatusCompleted, &stats.Completed},
		{"priority", models.PriorityHigh, &stats.HighPriority},
		{"priority", models.PriorityMedium, &stats.MediumPriority},
		{"priority", models.PriorityLow, &stats.LowPriority},
	}
	for _, count := range counts {
		value, err := service.tasks.CountAssignedBy(ctx, account.ID, count.column, count.value)
		if err != nil {
			return StatisticsReport{}, storeError("count "+count.column, err)
		}
		*count.target = value
	}

	return StatisticsReport{Account: NewPublicAccount(account), Statistics: stats}, nil
}

// ExpiredTasks lists the account's assignments whose task was due before now,
// earliest first.
func (service *ReportService) ExpiredTasks(ctx context.Context, handle string, now time.Time) (ExpiredTasksReport, error) {
	account, err := service.findAccount(ctx, handle)
	if err != nil {
		return ExpiredTasksReport{}, err
	}

	assignments, err := service.assignments.ListExpiredByAccount(ctx, account.ID, now.UTC())
	if err != nil {
		return ExpiredTasksReport{}, storeError("list expired tasks", err)
	}
	return ExpiredTasksReport{Account: NewPublicAccount(account), Assignments: assignments}, nil
}

func (service *ReportService) findAccount(ctx context.Context, handle string) (*models.Account, error) {
	account, err := service.accounts.FindByHandle(ctx, handle)
	if err != nil {
		return nil, storeError("find account", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
