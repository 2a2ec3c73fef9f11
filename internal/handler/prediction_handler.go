package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/omnivion/omnivion-api/internal/dto"
	"github.com/omnivion/omnivion-api/internal/service"
	"github.com/omnivion/omnivion-api/internal/utils"
)

// PredictionHandler fronts the dropout-risk scoring gateway.
type PredictionHandler struct {
	service   service.PredictionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPredictionHandler constructs a prediction handler.
func NewPredictionHandler(service service.PredictionService, validate *validator.Validate, logger zerolog.Logger) *PredictionHandler {
	return &PredictionHandler{
		service:   service,
		validator: validate,
		logger:    logger.With().Str("component", "prediction_handler").Logger(),
	}
}

// Register wires prediction routes.
func (h *PredictionHandler) Register(router fiber.Router) {
	router.Post("/predict", h.predict)
	router.Post("/predict-batch", h.predictBatch)
	router.Get("/health", h.health)
}

func (h *PredictionHandler) predict(c *fiber.Ctx) error {
	var payload dto.StudentPayload
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Predict(c.Context(), payload)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to score student")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to score student")
	}

	return utils.SendSuccess(c, "prediction generated", response)
}

func (h *PredictionHandler) predictBatch(c *fiber.Ctx) error {
	var payload dto.BatchPredictionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}
	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.PredictBatch(c.Context(), payload.Students)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to score batch")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to score batch")
	}

	return utils.SendSuccess(c, "batch prediction generated", response)
}

func (h *PredictionHandler) health(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "scoring service status", h.service.ServiceHealth(c.Context()))
}
