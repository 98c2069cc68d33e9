package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/terraincognita07/flowbit/internal/db"
	"github.com/terraincognita07/flowbit/internal/i18n"
	"github.com/terraincognita07/flowbit/internal/services"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, hasher services.PasswordHasher, i18nManager *i18n.Manager, logger *slog.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if hasher == nil {
		return nil, errors.New("password hasher is required")
	}
	if i18nManager == nil {
		return nil, errors.New("i18n manager is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	handler := &Handler{
		i18n:   i18nManager,
		logger: logger,
		now:    time.Now,
	}
	return handler.withDependencies(database, hasher), nil
}

func (handler *Handler) withDependencies(database *gorm.DB, hasher services.PasswordHasher) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.provisioningService = services.NewProvisioningService(handler.repositories.Tasks, handler.repositories.Assignments, handler.logger)
	handler.authService = services.NewAuthService(handler.repositories.Accounts, hasher, handler.provisioningService, handler.logger)
	handler.reportService = services.NewReportService(handler.repositories.Accounts, handler.repositories.Tasks, handler.repositories.Assignments)
	return handler
}

// WithClock swaps the time source of the handler and the auth flows behind it.
func (handler *Handler) WithClock(now func() time.Time) *Handler {
	handler.now = now
	handler.authService.WithClock(now)
	return handler
}
