package handlers

import (
	"errors"

	"storefront/internal/models"
	"storefront/internal/services"
	"storefront/pkg/logger"
	"storefront/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for signup and login.
type AuthHandler struct {
	authService *services.AuthService
	metrics     *metrics.Metrics
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, m *metrics.Metrics, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		metrics:     m,
		log:         log,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/signup", h.HandleSignup)
	router.Post("/login", h.HandleLogin)
}

// HandleSignup handles new user registration. No session is started.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req models.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	if _, err := h.authService.Register(c.UserContext(), req); err != nil {
		return respondError(c, h.log, err, "Internal Server Error")
	}
	return respond(c, fiber.StatusOK, "Successfully signed up", nil)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin checks the credentials and returns the user's profile.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAccountNotFound):
			h.metrics.LoginAttempt("unknown_email")
		case errors.Is(err, services.ErrInvalidCredentials):
			h.metrics.LoginAttempt("bad_password")
		}
		return respondError(c, h.log, err, "Internal Server Error")
	}

	h.metrics.LoginAttempt("success")
	return respond(c, fiber.StatusOK, "Login is successful", fiber.Map{"data": user})
}
