package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/health", handler.Health)

	api.Post("/register", handler.Register)
	api.Post("/login", handler.Login)
	api.Post("/recovery", handler.Recover)

	reports := api.Group("/reports")
	reports.Get("/expired/:handle", handler.ExpiredTasksReport)
	reports.Get("/:handle", handler.StatisticsReport)
}
