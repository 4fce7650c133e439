package handlers

import (
	"errors"
	"strings"

	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// respond writes a JSON object carrying message and an alert flag that is
// true exactly when status is 2xx. extra is merged into the body.
func respond(c *fiber.Ctx, status int, message string, extra fiber.Map) error {
	body := fiber.Map{}
	for k, v := range extra {
		body[k] = v
	}
	body["message"] = message
	body["alert"] = status >= 200 && status < 300
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return respond(c, fiber.StatusBadRequest, "Invalid request body", nil)
}

// errorStatus maps a domain error to its HTTP status and client message.
// ok is false for errors that have no client-facing meaning.
func errorStatus(err error) (status int, message string, ok bool) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, "Missing or invalid fields: " + strings.Join(validationErr.Fields, ", "), true
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, "Email id is already registered", true
	case errors.Is(err, services.ErrAccountNotFound):
		return fiber.StatusNotFound, "Email is not available, please sign up", true
	case errors.Is(err, services.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid email or password", true
	case errors.Is(err, services.ErrUserNotFound):
		return fiber.StatusNotFound, "User not found", true
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, "Product not found", true
	case errors.Is(err, services.ErrDuplicateMessage):
		return fiber.StatusConflict, "A message from this email has already been received", true
	case errors.Is(err, services.ErrPricing):
		return fiber.StatusUnprocessableEntity, "Order could not be priced from the catalog", true
	case errors.Is(err, services.ErrInvalidAmount):
		return fiber.StatusBadRequest, "Amount must be a positive number", true
	}
	return fiber.StatusInternalServerError, "", false
}

// respondError answers with the mapped status for known errors. Anything else
// is logged and answered with a 500 and fallback, never the cause.
func respondError(c *fiber.Ctx, log *logger.Logger, err error, fallback string) error {
	status, message, ok := errorStatus(err)
	if !ok {
		log.Error(c.UserContext(), fallback, err)
		return respond(c, fiber.StatusInternalServerError, fallback, nil)
	}
	if status >= fiber.StatusInternalServerError {
		log.Error(c.UserContext(), message, err)
	}
	return respond(c, status, message, nil)
}
