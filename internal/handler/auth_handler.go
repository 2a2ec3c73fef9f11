package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/service"
	"github.com/omnivion/omnivion-api/internal/utils"
)

// AuthHandler handles account registration and login.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires auth routes. Account creation and the user listing are
// restricted to admins by the middleware applied in the router.
func (h *AuthHandler) Register(public, authed, adminOnly fiber.Router) {
	public.Post("/login", h.login)
	authed.Get("/me", h.me)
	adminOnly.Post("/register", h.register)
	adminOnly.Get("/users", h.users)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Register(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, "email already registered")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to register account")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to register account")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "account registered", response)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid email or password")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to authenticate")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to authenticate")
		}
	}

	return utils.SendSuccess(c, "authenticated", response)
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
	}

	response, err := h.service.Me(c.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return utils.SendError(c, fiber.StatusUnauthorized, "account not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load account")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load account")
	}

	return utils.SendSuccess(c, "account loaded", response)
}

func (h *AuthHandler) users(c *fiber.Ctx) error {
	response, err := h.service.Users(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list accounts")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list accounts")
	}

	return utils.SendSuccess(c, "accounts listed", response)
}
