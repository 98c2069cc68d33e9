package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/flowbit/internal/services"
)

func (handler *Handler) Register(c *fiber.Ctx) error {
	input := registerInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "error.bad_request")
	}

	account, err := handler.authService.Register(c.UserContext(), services.RegistrationInput{
		Email:        strings.TrimSpace(input.Email),
		Handle:       strings.TrimSpace(firstNonEmpty(input.Handle, input.Username)),
		Password:     input.Password,
		FirstName:    strings.TrimSpace(firstNonEmpty(input.FirstName, input.FirstNameOld)),
		LastName:     strings.TrimSpace(firstNonEmpty(input.LastName, input.LastNameOld)),
		SecretAnswer: firstNonEmpty(input.SecretAnswer, input.RecoveryAnswer),
	})
	if err != nil {
		return handler.respondAuthError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"ok":      true,
		"message": localized(c, "message.registered"),
		"user":    account,
	})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input := loginInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "error.bad_request")
	}

	result, err := handler.authService.Login(c.UserContext(), services.LoginInput{
		Identifier: strings.TrimSpace(firstNonEmpty(input.Identifier, input.Email)),
		Password:   input.Password,
	})
	if err != nil {
		return handler.respondAuthError(c, err)
	}

	provisioning := result.Provisioning
	if result.ProvisioningErr != nil {
		provisioning = services.ProvisioningFailed
	}
	return c.JSON(fiber.Map{
		"ok":           true,
		"message":      localized(c, "message.logged_in"),
		"user":         result.Account,
		"provisioning": provisioning,
	})
}

func (handler *Handler) Recover(c *fiber.Ctx) error {
	input := recoveryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "error.bad_request")
	}

	account, err := handler.authService.Recover(c.UserContext(), services.RecoveryInput{
		Email:        strings.TrimSpace(input.Email),
		SecretAnswer: firstNonEmpty(input.SecretAnswer, input.RecoveryAnswer),
		NewPassword:  firstNonEmpty(input.NewPassword, input.Password),
	})
	if err != nil {
		return handler.respondAuthError(c, err)
	}

	return c.JSON(fiber.Map{
		"ok":      true,
		"message": localized(c, "message.recovered"),
		"user":    account,
	})
}
