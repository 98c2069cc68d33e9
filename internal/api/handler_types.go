package api

import (
	"log/slog"
	"time"

	"github.com/terraincognita07/flowbit/internal/db"
	"github.com/terraincognita07/flowbit/internal/i18n"
	"github.com/terraincognita07/flowbit/internal/services"
)

type Handler struct {
	i18n   *i18n.Manager
	logger *slog.Logger
	now    func() time.Time

	repositories        *db.Repositories
	authService         *services.AuthService
	provisioningService *services.ProvisioningService
	reportService       *services.ReportService
}
