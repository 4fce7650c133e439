package handlers

import (
	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/logger"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles profile updates.
type UserHandler struct {
	authService *services.AuthService
	log         *logger.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		log:         log,
	}
}

// RegisterRoutes registers the profile update route.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	router.Put("/users/:userId", h.HandleUpdateUser)
}

// HandleUpdateUser merges the body into the user's profile. isAdmin is not
// part of UserPatch and is ignored if sent.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return badBody(c)
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), c.Params("userId"), patch)
	if err != nil {
		return respondError(c, h.log, err, "Failed to update user data")
	}
	return respond(c, fiber.StatusOK, "User updated successfully", fiber.Map{"data": user})
}
