package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) StatisticsReport(c *fiber.Ctx) error {
	handle := strings.TrimSpace(c.Params("handle"))
	report, err := handler.reportService.Statistics(c.UserContext(), handle)
	if err != nil {
		return handler.respondAuthError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":         true,
		"message":    localized(c, "message.statistics", report.Account.Handle),
		"user":       report.Account,
		"statistics": report.Statistics,
	})
}

func (handler *Handler) ExpiredTasksReport(c *fiber.Ctx) error {
	handle := strings.TrimSpace(c.Params("handle"))
	report, err := handler.reportService.ExpiredTasks(c.UserContext(), handle, handler.now())
	if err != nil {
		return handler.respondAuthError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":            true,
		"message":       localized(c, "message.expired", report.Account.Handle),
		"user":          report.Account,
		"expired_tasks": report.Assignments,
		"total":         len(report.Assignments),
	})
}
